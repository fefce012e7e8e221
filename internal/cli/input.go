// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	rankStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// InputHandler reads prefixes line by line and prints their completions.
// Lines starting with ':' are commands: ":add word...", ":stats", ":quit".
type InputHandler struct {
	completer       suggest.ICompleter
	in              io.Reader
	out             io.Writer
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, in io.Reader, out io.Writer, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		completer:       completer,
		in:              in,
		out:             out,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
	}
}

// Start runs the prompt loop until the input ends or ":quit" is read.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, titleStyle.Render("wordtrie CLI"))
	fmt.Fprintln(h.out, "type a prefix and press Enter to see the suggestions (Ctrl+D to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ":") {
			if quit := h.handleCommand(line[1:]); quit {
				return nil
			}
			continue
		}
		h.handleInput(line)
	}
}

func (h *InputHandler) handleCommand(cmd string) bool {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return true
	case "add":
		added := 0
		for _, w := range fields[1:] {
			before := h.completer.Size()
			if err := h.completer.AddWord(w); err != nil {
				log.Errorf("Failed to add '%s': %v", w, err)
				continue
			}
			if h.completer.Size() > before {
				added++
			}
		}
		fmt.Fprintf(h.out, "added %d of %d words\n", added, len(fields)-1)
	case "stats":
		stats := h.completer.Stats()
		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(h.out, "%-16s %s\n", k, utils.FormatWithCommas(stats[k]))
		}
	default:
		log.Errorf("Unknown command: %s", fields[0])
	}
	return false
}

// handleInput validates a prefix and prints its suggestions.
func (h *InputHandler) handleInput(prefix string) {
	length := utf8.RuneCountInString(prefix)
	if length < h.minPrefixLength {
		log.Errorf("Prefix too short: %s", prefix)
		return
	}
	if length > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter && !utils.IsValidInput(prefix) {
		fmt.Fprintf(h.out, "No suggestions for '%s' (filtered)\n", prefix)
		return
	}

	start := time.Now()
	suggestions := h.completer.Complete(prefix, h.suggestLimit)
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "No suggestions for '%s'\n", prefix)
		return
	}

	fmt.Fprintf(h.out, "Found %d suggestions for prefix '%s':\n", len(suggestions), prefix)
	for _, s := range suggestions {
		fmt.Fprintf(h.out, "%s %s\n", rankStyle.Render(fmt.Sprintf("%3d.", s.Rank)), wordStyle.Render(s.Word))
	}
}
