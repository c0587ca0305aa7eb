package null

import (
	"fmt"

	"github.com/agent-racer/multiplayer/internal/session"
)

// SeedLobbies hosts n bot sessions on lan so there is something to find.
// Bots alternate between matchType and a "ffa" tag and return the
// providers that host them.
func SeedLobbies(lan *LAN, n int, matchType string, connections int) []*Provider {
	bots := make([]*Provider, 0, n)
	for i := range n {
		bot := New(lan,
			WithOwner(fmt.Sprintf("bot-%d", i+1)),
			WithAddress(fmt.Sprintf("10.0.0.%d:7777", i+2)),
			WithPing(20+i*15),
		)
		tag := matchType
		if i%2 == 1 {
			tag = "ffa"
		}
		cfg := session.Config{
			NumPublicConnections: connections,
			IsLANMatch:           true,
			AllowJoinInProgress:  true,
			AllowJoinViaPresence: true,
			ShouldAdvertise:      true,
			UsesPresence:         true,
			BuildUniqueID:        session.BuildID,
			Settings:             map[string]string{session.SettingMatchType: tag},
		}
		if bot.CreateSession(session.UserID(bot.owner), session.GameSessionName, cfg) {
			bot.Flush()
			bots = append(bots, bot)
		}
	}
	return bots
}
