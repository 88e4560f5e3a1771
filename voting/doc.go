// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting is the single entry point for casting a vote.

A submission moves through a fixed sequence of states:

	Received -> Validating -> VerifyingHumanity -> Recording -> Accepted
	                 |               |                  |
	                 +---------------+------------------+-> Rejected(reason)

Humanity verification always finishes before the ledger is touched. The
ledger, not the gateway, decides whether the voter already voted. Accepted
votes are announced to the realtime hub before Submit returns.
*/
package voting
