// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub broadcasts "tally changed" notifications to live viewers.

Each poll is a topic. Viewers subscribe, receive notifications on a
buffered channel, and unsubscribe when they leave:

	sub := h.Subscribe(pollID)
	defer sub.Close()

	for ev := range sub.Events(ctx) {
		// re-read the tally
	}

Notifications carry only the poll ID, a per-topic sequence number and a
timestamp. A slow viewer never blocks a publisher: when its queue is full
the new notification is dropped, since the one already queued triggers the
same re-read.

Topics are created on first subscribe and removed with their last
subscriber. Close on the hub ends every subscription during shutdown.
*/
package hub
