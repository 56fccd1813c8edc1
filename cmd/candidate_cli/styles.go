package main

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#0969DA")
	accentColor  = lipgloss.Color("#2DA44E")
	errorColor   = lipgloss.Color("#CF222E")
	dimColor     = lipgloss.Color("#6E7681")
	scoreColor   = lipgloss.Color("#F778BA")
	modeColor    = lipgloss.Color("#A371F7")

	HeaderStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	ModeStyle = lipgloss.NewStyle().
			Foreground(modeColor).
			Bold(true)

	ScoreStyle = lipgloss.NewStyle().
			Foreground(scoreColor).
			Bold(true).
			Width(5).
			Align(lipgloss.Right)

	IDStyle = lipgloss.NewStyle().
		Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)
