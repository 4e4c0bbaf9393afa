// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime implements the live tally fan-out over websockets.

# Pieces

  - Hub: connection registry plus per-poll channel membership; implements
    votes.Broadcaster.
  - Client: one connection's lifecycle (anonymous → authenticated →
    disconnected) and its inbound event dispatch.
  - ServeWS: the GET /ws upgrade handler.

# Protocol

Messages are JSON envelopes {"event": name, "data": payload}. The event set
is closed:

	inbound:  authenticate(token), joinPoll(pollId), leavePoll(pollId),
	          getPollData(pollId)
	outbound: authenticated{user}, authError{message},
	          joinedPoll{pollId, message}, leftPoll{pollId, message},
	          pollData(snapshot), pollUpdate(snapshot), error{message}

joinPoll and leavePoll do not require prior authentication; poll tallies are
publicly viewable, like the HTTP read surface. authenticate failures emit
authError and keep the connection open.

# Ordering and back-pressure

All pollUpdate broadcasts pass through one queue drained by Hub.Run, and each
client has a FIFO send buffer, so successive tallies for a poll reach every
member in production order. A client whose buffer is full is dropped so it
cannot stall the rest; the originating vote is unaffected, having committed
before the broadcast was queued.
*/
package realtime
