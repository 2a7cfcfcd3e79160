package notifier

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/macrocal/internal/event"
)

// TwitterNotifier posts event alerts to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Notify posts one tweet per event
func (n *TwitterNotifier) Notify(events []*event.Event) error {
	for i, evt := range events {
		tweet := formatTweet(evt)

		_, _, err := n.client.Statuses.Update(tweet, nil)
		if err != nil {
			return fmt.Errorf("failed to post tweet for %s %s: %w", evt.Currency, evt.Name, err)
		}

		// Rate limiting: wait between tweets
		if i < len(events)-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil
}

// formatTweet formats an event as a tweet
func formatTweet(evt *event.Event) string {
	tweet := fmt.Sprintf("📅 %s impact event\n\n", evt.Impact)
	tweet += fmt.Sprintf("%s — %s\n", evt.Currency, evt.Name)
	tweet += fmt.Sprintf("🕐 %s UTC\n", evt.Timestamp.UTC().Format("Mon Jan 2 15:04"))

	if len(evt.Sessions) > 0 {
		tweet += fmt.Sprintf("🌍 %s session\n", strings.Join(evt.Sessions, "/"))
	}
	if evt.Forecast != "" {
		tweet += fmt.Sprintf("Forecast: %s", evt.Forecast)
		if evt.Previous != "" {
			tweet += fmt.Sprintf(" | Previous: %s", evt.Previous)
		}
		tweet += "\n"
	}

	tweet += "\n#forex #economiccalendar"

	// Twitter limit is 280 characters
	if len(tweet) > 280 {
		tweet = tweet[:277] + "..."
	}

	return tweet
}
