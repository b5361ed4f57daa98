// Package stream exposes a scheduler and its coordinate store to remote
// consumers.
//
//   - [Hub] streams change frames to websocket clients.
//   - [RedisPublisher] publishes the same frames to a Redis channel.
//   - [NewRouter] serves a small JSON API for positions, layouts, the
//     animation switch and statistics.
//
// Hub and RedisPublisher are store listeners. Both queue frames per
// consumer and drop them when a consumer falls behind, so a slow client
// never stalls the goroutine that changed the store (for animation ticks,
// the driver goroutine).
//
// # Frames
//
//	{"seq": 12, "added": ["a"], "removed": ["b"], "positions": {"a": {"x": 1, "y": 2}}}
//
// A websocket client first receives a frame with "snapshot": true carrying
// every active position.
package stream
