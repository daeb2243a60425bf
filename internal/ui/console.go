package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Amr-9/BeautyHunter/pkg/beauty"
	"github.com/Amr-9/BeautyHunter/pkg/generator"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorPurple = "\033[35m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

var out io.Writer = os.Stdout

// SetOutput redirects everything the console prints.
func SetOutput(w io.Writer) {
	out = w
}

// SearchInfo is what PrintSearchInfo shows about a run.
type SearchInfo struct {
	Mode        generator.Mode
	Workers     int
	Contract    string
	Hash        string
	Destination string
	Path        string // only shown in mnemonic mode
	Scheme      string // only shown in mnemonic mode
	Limit       uint64
}

// ClearScreen clears the terminal
func ClearScreen() {
	fmt.Fprint(out, "\033[H\033[2J")
}

// PrintWelcomeBanner shows the welcome screen
func PrintWelcomeBanner(version string) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s%s", ColorCyan, ColorBold)
	fmt.Fprintln(out, "  ╔══════════════════════════════════════════════════════════╗")
	fmt.Fprintln(out, "  ║   ░█▀▄░█▀▀░█▀█░█░█░▀█▀░█░█░█░█░█░█░█▀█░▀█▀░█▀▀░█▀▄        ║")
	fmt.Fprintln(out, "  ║   ░█▀▄░█▀▀░█▀█░█░█░░█░░░█░░█▀█░█░█░█░█░░█░░█▀▀░█▀▄        ║")
	fmt.Fprintln(out, "  ║   ░▀▀░░▀▀▀░▀░▀░▀▀▀░░▀░░░▀░░▀░▀░▀▀▀░▀░▀░░▀░░▀▀▀░▀░▀        ║")
	fmt.Fprintln(out, "  ╠══════════════════════════════════════════════════════════╣")
	fmt.Fprintf(out, "  ║%s      Beautiful Address Miner %s• v%-10s%s                 ║\n", ColorYellow, ColorDim, version, ColorCyan+ColorBold)
	fmt.Fprintln(out, "  ╚══════════════════════════════════════════════════════════╝")
	fmt.Fprint(out, ColorReset)
	fmt.Fprintln(out)
}

// PrintSearchInfo displays search configuration
func PrintSearchInfo(info SearchInfo) {
	fmt.Fprintf(out, "\n    %s🚀 SEARCHING%s %s%s mode%s with %s%d%s workers\n",
		ColorGreen+ColorBold, ColorReset,
		ColorBold+ColorCyan, info.Mode, ColorReset,
		ColorBold, info.Workers, ColorReset)

	fmt.Fprintf(out, "    %scontract%s %s %s(%s)%s\n", ColorDim, ColorReset, info.Contract, ColorDim, info.Hash, ColorReset)
	if info.Mode == generator.Mnemonic {
		fmt.Fprintf(out, "    %spath%s     %s %s(%s)%s\n", ColorDim, ColorReset, info.Path, ColorDim, info.Scheme, ColorReset)
	}
	fmt.Fprintf(out, "    %soutput%s   %s\n", ColorDim, ColorReset, info.Destination)
	if info.Limit > 0 {
		fmt.Fprintf(out, "    %slimit%s    %s per worker\n", ColorDim, ColorReset, FormatNumber(info.Limit))
	}
	fmt.Fprintln(out)
}

// PrintProgress redraws the progress line
func PrintProgress(stats generator.Stats, frame int) {
	spinners := []string{"◐", "◓", "◑", "◒"}
	spinner := spinners[frame%len(spinners)]

	fmt.Fprintf(out, "\r    %s%s%s %s%s%s │ %s%s%s │ %s✨ %s%s │ %s",
		ColorCyan, spinner, ColorReset,
		ColorGreen+ColorBold, FormatHashRate(stats.HashRate), ColorReset,
		ColorYellow, FormatNumber(stats.Attempts), ColorReset,
		ColorPurple, FormatNumber(stats.TotalMatches()), ColorReset,
		FormatDuration(time.Duration(stats.ElapsedSecs*float64(time.Second))))
}

// FormatHashRate formats hash rate nicely
func FormatHashRate(rate float64) string {
	if rate >= 1000000 {
		return fmt.Sprintf("%.1fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	return fmt.Sprintf("%.0f/s", rate)
}

// PrintSummary shows the totals of a finished run
func PrintSummary(stats generator.Stats, destination string) {
	fmt.Fprintf(out, "\n    %s%s╔══════════════════════════════════════════════════════════╗%s\n", ColorGreen, ColorBold, ColorReset)
	fmt.Fprintf(out, "    %s%s║                    ✨ SEARCH STOPPED ✨                   ║%s\n", ColorGreen, ColorBold, ColorReset)
	fmt.Fprintf(out, "    %s%s╚══════════════════════════════════════════════════════════╝%s\n\n", ColorGreen, ColorBold, ColorReset)

	for code := beauty.ClusteredChunks; code <= beauty.SingleClass; code++ {
		fmt.Fprintf(out, "       %s%-20s%s %s\n", ColorCyan, code, ColorReset, FormatNumber(stats.Matches[code]))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "    %s⏱   %s%s   %s│   %s📊  %s%s   %s│   %s💾  %s%s%s\n",
		ColorCyan, ColorReset+ColorBold, FormatDuration(time.Duration(stats.ElapsedSecs*float64(time.Second))),
		ColorDim,
		ColorPurple, ColorReset+ColorBold, FormatNumber(stats.Attempts),
		ColorDim,
		ColorYellow, ColorReset+ColorBold, destination,
		ColorReset)
	if stats.Skipped > 0 {
		fmt.Fprintf(out, "    %s%s skipped invalid derivations%s\n", ColorDim, FormatNumber(stats.Skipped), ColorReset)
	}
	if stats.TotalMatches() > 0 {
		fmt.Fprintf(out, "\n    %s%s⚠  THE OUTPUT HOLDS SECRET KEYS, KEEP IT PRIVATE!%s\n", ColorRed, ColorBold, ColorReset)
	}
}

// ClearLine clears the current line
func ClearLine() {
	fmt.Fprint(out, "\r"+strings.Repeat(" ", 94)+"\r")
}

// FormatNumber adds commas to large numbers
func FormatNumber(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatDuration formats duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", h, m)
}
