package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/gampahin-husmak/community-api/internal/models"
)

type Notifier interface {
	AnnounceAward(user models.User, achievement models.Achievement, treeCount int) error
}

// DiscordNotifier posts badge awards to the community Discord channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) AnnounceAward(user models.User, achievement models.Achievement, treeCount int) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	message := fmt.Sprintf("%s **Achievement Unlocked**\n**Planter:** %s\n**Badge:** %s\n**Trees planted:** %d",
		achievement.Icon,
		user.FullName,
		achievement.BadgeName,
		treeCount,
	)

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
