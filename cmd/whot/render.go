package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/whot/internal/leaderboard"
	"github.com/lox/whot/internal/simulator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	leaderStyle = cellStyle.
			Foreground(lipgloss.Color("10"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func renderLeaderboard(entries []leaderboard.Entry) string {
	if len(entries) == 0 {
		return dimStyle.Render("No finished games yet")
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Identity,
			strconv.Itoa(e.Wins),
			strconv.Itoa(e.GamesPlayed),
			fmt.Sprintf("%.1f%%", e.WinRate()*100),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "Player", "Wins", "Played", "Win rate").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch row {
			case table.HeaderRow:
				return headerStyle
			case 0:
				return leaderStyle
			}
			return cellStyle
		})
	return t.Render()
}

func renderSummary(result *simulator.Result, elapsed time.Duration) string {
	avg := 0.0
	if n := len(result.Games); n > 0 {
		avg = float64(result.Moves) / float64(n)
	}
	return fmt.Sprintf("%s\n%s finished, %s stalled, %.1f moves per game, %s",
		titleStyle.Render(fmt.Sprintf("Simulated %d games", len(result.Games))),
		strconv.Itoa(result.Finished),
		strconv.Itoa(result.Stalled),
		avg,
		dimStyle.Render(elapsed.Round(time.Millisecond).String()))
}
