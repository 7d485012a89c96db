package announce

import (
	"fmt"
	"strconv"
	"time"
)

const (
	colorDeath   = 0x2C2F33
	colorRevive  = 0x57F287
	colorLevelUp = 0xFEE75C

	defaultFooter = "coal-bot graveyard"
	levelFooter   = "coal-bot levels"
)

func FormatMessage(ev Event) (FormattedMessage, bool) {
	base := FormattedMessage{
		Timestamp: ev.At.UTC().Format(time.RFC3339),
		Footer:    defaultFooter,
	}
	switch ev.Kind {
	case KindDeath:
		base.Title = fmt.Sprintf("Death #%d", ev.Seq)
		base.Color = colorDeath
		if ev.Anonymous {
			base.Description = "Someone died."
		} else {
			base.Description = fmt.Sprintf("%s died.", mention(ev.Subject))
		}
		if ev.Reason != "" {
			base.Fields = append(base.Fields, MessageField{Name: "Cause", Value: ev.Reason})
		}
		if ev.Total > 0 && !ev.Anonymous {
			base.Fields = append(base.Fields, MessageField{Name: "Deaths", Value: strconv.Itoa(ev.Total), Inline: true})
		}
	case KindRevive:
		base.Title = fmt.Sprintf("Death #%d undone", ev.Seq)
		base.Color = colorRevive
		base.Description = fmt.Sprintf("%s came back.", mention(ev.Subject))
		if ev.Reason != "" {
			base.Fields = append(base.Fields, MessageField{Name: "How", Value: ev.Reason})
		}
	case KindLevelUp:
		base.Title = "Level up"
		base.Color = colorLevelUp
		base.Footer = levelFooter
		base.Description = fmt.Sprintf("%s reached level %d.", mention(ev.Subject), ev.Level)
	default:
		return FormattedMessage{}, false
	}
	return base, true
}

func mention(id string) string {
	if id == "" {
		return "someone"
	}
	return "<@" + id + ">"
}
