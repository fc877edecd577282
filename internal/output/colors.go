package output

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var rgbRegex = regexp.MustCompile(`^#([a-fA-F0-9]{2})([a-fA-F0-9]{2})([a-fA-F0-9]{2})$`)

var (
	colorCache = make(map[string]*color.Color, 8)
	colorMutex sync.RWMutex
)

var predefinedColors = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"default": color.Reset,
}

// ParseColor resolves a color name ("green") or an RGB value ("#1b1cbf").
// A "bold " prefix adds the bold attribute.
func ParseColor(name string) (*color.Color, error) {
	colorMutex.RLock()
	if cached, exists := colorCache[name]; exists {
		colorMutex.RUnlock()
		return cached, nil
	}
	colorMutex.RUnlock()

	key := strings.ToLower(strings.TrimSpace(name))
	bold := false
	if rest, ok := strings.CutPrefix(key, "bold "); ok {
		bold, key = true, strings.TrimSpace(rest)
	}

	var result *color.Color
	if m := rgbRegex.FindStringSubmatch(key); m != nil {
		r, _ := strconv.ParseUint(m[1], 16, 8)
		g, _ := strconv.ParseUint(m[2], 16, 8)
		b, _ := strconv.ParseUint(m[3], 16, 8)
		result = color.RGB(int(r), int(g), int(b))
	} else if attr, exists := predefinedColors[key]; exists {
		result = color.New(attr)
	} else {
		return nil, fmt.Errorf("unknown color: %q", name)
	}

	if bold {
		result.Add(color.Bold)
	}

	colorMutex.Lock()
	colorCache[name] = result
	colorMutex.Unlock()

	return result, nil
}
