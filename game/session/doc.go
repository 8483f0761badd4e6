// Package session keeps the live game sessions in memory.
//
// Each session owns its own engine, seeded either by the caller or from
// crypto/rand, so two sessions never share board state or a random source.
// Session IDs are four lower-case hex characters and lookups ignore case.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a session with a generated ID and a random seed
//	sess, err := manager.Create("", rules, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve it again
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
//
// Sessions live only as long as the process; nothing is written to disk.
package session
