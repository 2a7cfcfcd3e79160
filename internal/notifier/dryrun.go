package notifier

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/macrocal/internal/event"
)

// DryRunNotifier prints what would be tweeted without actually posting
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the tweets that would be posted
func (n *DryRunNotifier) Notify(events []*event.Event) error {
	for i, evt := range events {
		tweet := formatTweet(evt)
		fmt.Fprintf(n.out, "--- Tweet %d/%d ---\n", i+1, len(events))
		fmt.Fprintln(n.out, tweet)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", len(tweet))
	}
	return nil
}
