// Package markdown renders conversation turns as Markdown for terminal hosts.
package markdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/ragso/pkg/domain"
)

// TimeLayout is how receipt times are printed.
const TimeLayout = "2006-01-02 15:04"

// Turn renders one turn. Selectable entries carry their id in backticks so a
// terminal user can type it back into a command.
func Turn(t domain.Turn) string {
	var b strings.Builder
	switch t.Role {
	case domain.RolePending:
		return "_..._\n"
	case domain.RoleUser:
		fmt.Fprintf(&b, "**나**: %s\n", t.Payload.Text)
		return b.String()
	}

	p := t.Payload
	if p.Text != "" {
		b.WriteString(p.Text)
		b.WriteString("\n")
	}

	switch p.Kind {
	case domain.PayloadSeatCandidates:
		writeSeats(&b, p.Seats)
	case domain.PayloadBiblioCandidates:
		if p.Biblios != nil {
			writeBiblios(&b, p.Biblios)
		}
	case domain.PayloadItemCandidates:
		if p.Items != nil {
			writeItems(&b, p.Items.Items)
		}
	case domain.PayloadItemDetail:
		if p.Detail != nil {
			writeDetail(&b, p.Detail)
		}
	case domain.PayloadConfirmPrompt:
		if p.Prompt != nil {
			writePrompt(&b, t.ID, p.Prompt)
		}
	case domain.PayloadReceipt:
		if p.Receipt != nil {
			writeReceipt(&b, p.Receipt)
		}
	}
	return b.String()
}

// Turns renders a sequence separated by blank lines.
func Turns(turns []domain.Turn) string {
	parts := make([]string, 0, len(turns))
	for _, t := range turns {
		parts = append(parts, strings.TrimRight(Turn(t), "\n"))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// QuickReplies renders the numbered quick-reply menu.
func QuickReplies(phrases []string) string {
	var b strings.Builder
	b.WriteString("**빠른 질문** (`/quick N`)\n\n")
	for i, p := range phrases {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return b.String()
}

func writeSeats(b *strings.Builder, seats []domain.Seat) {
	b.WriteString("\n")
	for _, s := range seats {
		fmt.Fprintf(b, "- `%s` %s\n", s.ID, s.DisplayName())
	}
}

func writeBiblios(b *strings.Builder, c *domain.BiblioCandidates) {
	b.WriteString("\n")
	for i, bib := range c.Recommended {
		fmt.Fprintf(b, "%d. `%s` **%s** (%s, %s)\n", i+1, bib.ID, bib.Title, bib.Author, bib.Publication)
	}
	for _, s := range c.UnavailableSuggestions {
		fmt.Fprintf(b, "\n> **%s**: %s (`/buy %s`)\n", s.Biblio.Title, s.Message, s.Biblio.ID)
	}
}

func writeItems(b *strings.Builder, items []domain.Item) {
	if len(items) == 0 {
		return
	}
	b.WriteString("\n")
	for _, it := range items {
		fmt.Fprintf(b, "- `%s` %s (%s)\n", it.ID, it.Title, it.Location)
	}
}

func writeDetail(b *strings.Builder, d *domain.ItemDetail) {
	fmt.Fprintf(b, "\n**%s**\n\n", d.Biblio.Title)
	fmt.Fprintf(b, "- 저자: %s\n- 발행: %s\n- 위치: %s\n", d.Biblio.Author, d.Biblio.Publication, d.Item.Location)
	if d.Biblio.Description != "" {
		fmt.Fprintf(b, "\n%s\n", d.Biblio.Description)
	}
	fmt.Fprintf(b, "\n`/hold %s` 로 신청\n", d.Item.ID)
	if len(d.Related) > 0 {
		b.WriteString("\n함께 볼 만한 도서:\n")
		for _, r := range d.Related {
			fmt.Fprintf(b, "- `%s` %s\n", r.ID, r.Title)
		}
	}
}

func writePrompt(b *strings.Builder, turnID string, p *domain.ConfirmPrompt) {
	if p.Resolved {
		b.WriteString("\n_(응답 완료)_\n")
		return
	}
	fmt.Fprintf(b, "\n`/yes` 또는 `/no` (%s)\n", turnID)
}

func writeReceipt(b *strings.Builder, r *domain.Receipt) {
	fmt.Fprintf(b, "\n- 확인번호: **%s**\n- 대상: %s\n", r.ConfirmationNumber, r.Subject.Description)
	if r.StartsAt != nil && r.EndsAt != nil {
		fmt.Fprintf(b, "- 이용시간: %s ~ %s\n", local(*r.StartsAt), local(*r.EndsAt))
	}
	if r.PickupLocation != "" {
		fmt.Fprintf(b, "- 수령장소: %s\n", r.PickupLocation)
	}
	if r.PickupDeadline != nil {
		fmt.Fprintf(b, "- 수령기한: %s\n", local(*r.PickupDeadline))
	}
}

func local(t time.Time) string {
	return t.Format(TimeLayout)
}
