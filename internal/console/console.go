// Package console renders menus, messages and item tables for the
// interactive terminal, and reads validated answers from the user.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mamadbah2/inventory/internal/domain/models"
)

// Severity selects the style of a message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityWarning
	SeverityError
)

// Option is one entry of a menu line.
type Option struct {
	Key   string
	Label string
}

type styles struct {
	info, success, warning, failure lipgloss.Style
	heading, key, prompt, banner   lipgloss.Style
	title, header, cell, border    lipgloss.Style
}

// Console writes styled output to a single writer.
type Console struct {
	out    io.Writer
	styles styles
}

// New returns a Console writing to out. Colors are used only when out is a
// terminal that supports them.
func New(out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)

	return &Console{
		out: out,
		styles: styles{
			info:    r.NewStyle().Foreground(lipgloss.Color("12")),
			success: r.NewStyle().Foreground(lipgloss.Color("10")),
			warning: r.NewStyle().Foreground(lipgloss.Color("11")),
			failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			heading: r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).Underline(true),
			key:     r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			prompt:  r.NewStyle().Bold(true),
			banner: r.NewStyle().
				Foreground(lipgloss.Color("10")).
				Bold(true).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("10")).
				Padding(0, 3),
			title:  r.NewStyle().Italic(true),
			header: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true).Padding(0, 1),
			cell:   r.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1),
			border: r.NewStyle().Foreground(lipgloss.Color("8")),
		},
	}
}

// Print writes one message line in the style of sev.
func (c *Console) Print(sev Severity, msg string) {
	var style lipgloss.Style
	switch sev {
	case SeveritySuccess:
		style = c.styles.success
	case SeverityWarning:
		style = c.styles.warning
	case SeverityError:
		style = c.styles.failure
	default:
		style = c.styles.info
	}
	fmt.Fprintln(c.out, style.Render(msg))
}

// Info prints a neutral message.
func (c *Console) Info(format string, args ...any) {
	c.Print(SeverityInfo, fmt.Sprintf(format, args...))
}

// Success prints a confirmation.
func (c *Console) Success(format string, args ...any) {
	c.Print(SeveritySuccess, fmt.Sprintf(format, args...))
}

// Warn prints a warning, used for aborted operations.
func (c *Console) Warn(format string, args ...any) {
	c.Print(SeverityWarning, fmt.Sprintf(format, args...))
}

// Error prints a failure.
func (c *Console) Error(format string, args ...any) {
	c.Print(SeverityError, fmt.Sprintf(format, args...))
}

// Heading prints a section title preceded by a blank line.
func (c *Console) Heading(title string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.styles.heading.Render(title))
}

// Menu prints a heading followed by the options on a single line.
func (c *Console) Menu(title string, options []Option) {
	c.Heading(title)

	parts := make([]string, len(options))
	for i, opt := range options {
		parts[i] = c.styles.key.Render(opt.Key+".") + " " + opt.Label
	}
	fmt.Fprintln(c.out, strings.Join(parts, " | "))
}

// Prompt writes label without a trailing newline.
func (c *Console) Prompt(label string) {
	fmt.Fprint(c.out, c.styles.prompt.Render(label))
}

// RenderItems prints items as a table. An empty slice prints a notice instead.
func (c *Console) RenderItems(title string, items []models.Item) {
	if len(items) == 0 {
		c.Error("No items in inventory.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.styles.border).
		BorderRow(true).
		Headers("Index", "Name", "Type", "Quantity", "Unit").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.styles.header
			}
			if col == 3 {
				return c.styles.cell.Align(lipgloss.Right)
			}
			return c.styles.cell
		})

	for _, item := range items {
		t.Row(strconv.Itoa(item.Index), item.Name, item.Type, item.Quantity, item.Unit)
	}

	fmt.Fprintln(c.out)
	if title != "" {
		fmt.Fprintln(c.out, c.styles.title.Render(title))
	}
	fmt.Fprintln(c.out, t.Render())
	fmt.Fprintln(c.out)
}

// Banner prints the startup banner.
func (c *Console) Banner() {
	fmt.Fprintln(c.out, c.styles.banner.Render("I N V E N T O R Y"))
}

// Help prints the usage guide.
func (c *Console) Help() {
	c.Heading("Help")
	lines := []string{
		"Main menu: 1 shows the whole inventory, 2 opens the operations menu, 0 quits.",
		"Operations: 1 adds an item, 2 updates one, 3 deletes one, 4 searches by name, 0 goes back.",
		"Search: type part of an item name to filter, or 1/2 to update/delete, 0 to go back.",
		"Items are picked by the index shown in the first column of the table.",
		"Names, types and units are text; quantities must be numbers greater than zero.",
		fmt.Sprintf("Every answer is limited to 20 characters. Submit '%s' at any field to cancel.", CancelToken),
		"When updating, leave a field blank to keep its current value.",
	}
	for _, line := range lines {
		c.Info("%s", line)
	}
}
