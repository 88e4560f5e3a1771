// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start and completion with status, duration_ms and the chi
request id. The wrapped writer still supports hijacking for websockets.

# CORS Middleware

Allows GET, POST and OPTIONS from any origin with headers Content-Type
and X-Voter-ID.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	middleware.RejectionResponse(w, models.ReasonAlreadyVoted)

Request bodies are capped at MaxBodyBytes:

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.RejectionResponse(w, models.ReasonInvalidInput)
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, then X-Real-IP, then RemoteAddr. The result is
stored with each vote and forwarded to the humanity verifier.
*/
package middleware
