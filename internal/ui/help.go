package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"infinitescroll/internal/domain"
)

// renderHelpContent renders the help information and the active watcher settings
func renderHelpContent(threshold int, boundaries domain.BoundarySet) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("Infinite Scroll Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Scrolling"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("↑/↓, k/j"), descStyle.Render("Scroll one row")))
	help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render("PgUp/PgDn"), descStyle.Render("Scroll one page")))
	help.WriteString(fmt.Sprintf("  %s       %s\n", keyStyle.Render("g/G"), descStyle.Render("Jump to top/bottom")))
	help.WriteString(fmt.Sprintf("  %s     %s\n", keyStyle.Render("wheel"), descStyle.Render("Scroll three rows")))

	help.WriteString(sectionStyle.Render("Loading"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s\n", descStyle.Render(fmt.Sprintf(
		"Older entries load within %d rows of the top, newer within %d rows of the bottom.", threshold, threshold))))
	help.WriteString(fmt.Sprintf("  %s %s\n", descStyle.Render("Watched edges:"), keyStyle.Render(boundaries.String())))

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s         %s\n", keyStyle.Render("?"), descStyle.Render("Show this help")))
	help.WriteString(fmt.Sprintf("  %s         %s", keyStyle.Render("q"), descStyle.Render("Quit")))

	return help.String()
}

// pagerCommand shows content in the ov pager. It satisfies tea.ExecCommand
// so Bubble Tea releases the terminal while the pager runs.
type pagerCommand struct {
	content string
}

func (p *pagerCommand) SetStdin(io.Reader)  {}
func (p *pagerCommand) SetStdout(io.Writer) {}
func (p *pagerCommand) SetStderr(io.Writer) {}

func (p *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(p.content))
	if err != nil {
		return err
	}

	// Don't write the page on exit, it would clobber our screen
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showHelpPager returns a command that shows help in the pager
func showHelpPager(content string) tea.Cmd {
	return tea.Exec(&pagerCommand{content: content}, func(err error) tea.Msg {
		return helpPagerMsg{err: err}
	})
}
