package library

import (
	"fmt"
	"strings"

	"github.com/s0up4200/marquee/catalog"
)

// ConsoleFormatter renders catalog items as a tree for the terminal
type ConsoleFormatter struct{}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter() *ConsoleFormatter {
	return &ConsoleFormatter{}
}

// FormatMovieList formats a list of movies for console display
func (f *ConsoleFormatter) FormatMovieList(movies []catalog.CatalogItem, options FormatOptions) string {
	if len(movies) == 0 {
		return "No movies found"
	}
	return f.formatTree("Movie", movies, options)
}

// FormatWatchlist formats the watchlist view pushed to observers
func (f *ConsoleFormatter) FormatWatchlist(movies []catalog.CatalogItem) string {
	if len(movies) == 0 {
		return "Watchlist is empty"
	}
	return f.formatTree("Watchlist movie", movies, FormatOptions{})
}

func (f *ConsoleFormatter) formatTree(noun string, movies []catalog.CatalogItem, options FormatOptions) string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(noun)
	if len(movies) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(movies))

	for i, movie := range movies {
		isLast := i == len(movies)-1
		f.formatMovie(&sb, movie, isLast, options)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

// formatMovie formats a single movie entry
func (f *ConsoleFormatter) formatMovie(sb *strings.Builder, movie catalog.CatalogItem, isLast bool, options FormatOptions) {
	prefix := "├"
	if isLast {
		prefix = "╰"
	}

	marker := ""
	if options.Watchlisted[movie.ID] {
		marker = " ★"
	}
	fmt.Fprintf(sb, "%s── %s (%d)%s\n", prefix, movie.Title, movie.ReleaseYear, marker)

	indent := "│   "
	if isLast {
		indent = "    "
	}

	var summary []string
	if len(movie.Genres) > 0 {
		summary = append(summary, strings.Join(movie.GenreNames(), ", "))
	}
	if runtime := movie.FormattedRuntime(); runtime != "" {
		summary = append(summary, runtime)
	}
	summary = append(summary, fmt.Sprintf("Rating: %.1f", movie.Rating))
	fmt.Fprintf(sb, "%s%s\n", indent, strings.Join(summary, " | "))

	if !options.ShowDetails {
		return
	}

	fmt.Fprintf(sb, "%sID: %s\n", indent, movie.ID)
	if len(movie.Directors) > 0 {
		fmt.Fprintf(sb, "%sDirected by: %s\n", indent, strings.Join(movie.Directors, ", "))
	}
	if len(movie.Writers) > 0 {
		fmt.Fprintf(sb, "%sWritten by: %s\n", indent, strings.Join(movie.Writers, ", "))
	}
	if len(movie.Cast) > 0 {
		fmt.Fprintf(sb, "%sStarring: %s\n", indent, strings.Join(movie.Cast, ", "))
	}
	if movie.Description != "" {
		fmt.Fprintf(sb, "%s%s\n", indent, movie.Description)
	}
}
