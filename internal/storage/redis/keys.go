package redis

import (
	"fmt"

	"github.com/frodon-community/peergames/internal/model"
)

// Key prefix for all persisted data
const keyPrefix = "peergames"

// statsKey returns the Redis key for a peer's per-game stats
func statsKey(peer model.PeerID, game model.GameKind) string {
	return fmt.Sprintf("%s:stats:%s:%s", keyPrefix, peer, game)
}
