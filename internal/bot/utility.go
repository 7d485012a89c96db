package bot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const swatchSize = 64

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

func (d *Dispatcher) help(_ context.Context, req *request) (Reply, error) {
	e := Embed{Title: "📖 Commands", Color: colorLevels}
	admin := d.admins[req.AuthorID]
	for _, c := range d.ordered {
		if c.Admin && !admin {
			continue
		}
		name := "`" + d.opts.Prefix + c.Usage + "`"
		if len(c.Aliases) > 0 {
			name += " (" + strings.Join(c.Aliases, ", ") + ")"
		}
		e.Fields = append(e.Fields, Field{Name: name, Value: c.Summary})
	}
	return embed(e), nil
}

func (d *Dispatcher) ping(_ context.Context, req *request) (Reply, error) {
	var latency time.Duration
	if d.opts.Latency != nil {
		latency = d.opts.Latency()
	} else {
		latency = time.Since(req.ReceivedAt)
	}
	ms := float64(latency.Microseconds()) / 1000
	return embed(Embed{Description: fmt.Sprintf("🏓 Pong! **%.2f ms**", ms), Color: colorGreen}), nil
}

func (d *Dispatcher) greet(_ context.Context, _ *request) (Reply, error) {
	return text("Greetings! How can I help you today? 👋"), nil
}

func (d *Dispatcher) echo(_ context.Context, req *request) (Reply, error) {
	if len(req.Args) == 0 {
		return Reply{}, usage("echo <message>")
	}
	return Reply{Content: strings.Join(req.Args, " "), DeleteTrigger: true}, nil
}

func (d *Dispatcher) color(_ context.Context, req *request) (Reply, error) {
	if len(req.Args) != 1 {
		return Reply{}, usage("color <#RRGGBB>")
	}
	hex := req.Args[0]
	if !hexColor.MatchString(hex) {
		return text("❌ Invalid hex code. Example: `#5865F2`"), nil
	}
	rgb := expandHex(hex)
	v, err := strconv.ParseInt(rgb, 16, 32)
	if err != nil {
		return text("❌ Invalid hex code. Example: `#5865F2`"), nil
	}
	swatch, err := renderSwatch(int(v))
	if err != nil {
		return Reply{}, err
	}
	return Reply{
		Embeds: []Embed{{Description: fmt.Sprintf("Colour: `%s`", hex), Color: int(v), Thumbnail: "attachment://color.png"}},
		Files:  []File{{Name: "color.png", ContentType: "image/png", Data: swatch}},
	}, nil
}

// expandHex turns #abc or #aabbcc into a six digit hex string.
func expandHex(hex string) string {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		return string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	return h
}

func renderSwatch(rgb int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, swatchSize, swatchSize))
	c := color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF}
	for y := 0; y < swatchSize; y++ {
		for x := 0; x < swatchSize; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
