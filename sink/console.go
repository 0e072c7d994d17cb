// Package sink holds the display collaborators: pure consumers of the
// session's display events.
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"

	"subnet-vox/domain"
	"subnet-vox/domain/event"
)

// Console renders display events as colored terminal lines. It never
// talks back to the networking core.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	self domain.Identity

	username color.Style
	info     color.Style
	warn     color.Style
	fail     color.Style
}

func NewConsole(out io.Writer, self domain.Identity) *Console {
	return &Console{
		out:      out,
		self:     self,
		username: color.New(color.FgCyan),
		info:     color.New(color.FgGreen),
		warn:     color.New(color.FgYellow),
		fail:     color.New(color.FgRed, color.Bold),
	}
}

func (c *Console) Consume(_ context.Context, e event.DisplayEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch evt := e.(type) {
	case event.PeerMessage:
		_, err := fmt.Fprintf(c.out, "[%s] %s: %s\n",
			evt.Message.SentAt.Format("15:04:05"),
			c.username.Render(evt.Message.Username),
			evt.Message.Body)
		return err

	case event.StatusLine:
		style := c.info
		switch evt.Level {
		case event.LevelWarn:
			style = c.warn
		case event.LevelError:
			style = c.fail
		}
		_, err := fmt.Fprintf(c.out, "%s %s\n", style.Render(">>>"), evt.Text)
		return err

	case event.PeerList:
		return c.renderPeers(evt.Peers)

	case event.ClearScreen:
		_, err := fmt.Fprint(c.out, "\033[2J\033[H")
		return err
	}
	return nil
}

func (c *Console) renderPeers(peers []domain.PeerEntry) error {
	if len(peers) == 0 {
		_, err := fmt.Fprintf(c.out, "%s nobody has been heard on the subnet yet\n", c.info.Render(">>>"))
		return err
	}

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Username", "Sender", "Last seen"})

	rows := lo.Map(peers, func(p domain.PeerEntry, _ int) []string {
		name := p.Username
		if p.Sender == c.self.ID {
			name += " (you)"
		}
		return []string{name, p.Sender.String()[:8], p.LastSeen.Format("15:04:05")}
	})
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return nil
}
