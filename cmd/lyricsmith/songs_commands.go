package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lyricsmith/internal/songwriting"
	"lyricsmith/internal/store"
)

const (
	defaultListLimit   = 20
	instructionPreview = 48
)

type songSummary struct {
	ID          string    `json:"id"`
	Genre       string    `json:"genre"`
	Vibe        string    `json:"vibe"`
	Theme       string    `json:"theme"`
	VoiceStyle  string    `json:"voiceStyle,omitempty"`
	VoicePreset string    `json:"voicePreset,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type songView struct {
	songSummary
	Lyrics   songwriting.Lyrics `json:"lyrics"`
	Metadata json.RawMessage    `json:"metadata,omitempty"`
	Voices   []voiceView        `json:"voiceGenerations"`
}

type voiceView struct {
	VoiceStyle      string    `json:"voiceStyle"`
	VoicePreset     string    `json:"voicePreset"`
	Preview         bool      `json:"preview"`
	DurationSeconds *float64  `json:"durationSeconds,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type revisionView struct {
	ID           string    `json:"id"`
	RevisionType string    `json:"revisionType"`
	Instruction  string    `json:"instruction"`
	CreatedAt    time.Time `json:"createdAt"`
}

func summarizeSong(song *store.Song) songSummary {
	return songSummary{
		ID:          song.ID,
		Genre:       song.Genre,
		Vibe:        song.Vibe,
		Theme:       song.Theme,
		VoiceStyle:  song.VoiceStyle,
		VoicePreset: song.VoicePreset,
		CreatedAt:   song.CreatedAt,
		UpdatedAt:   song.UpdatedAt,
	}
}

func newSongsCommand(ctx *commandContext) *cobra.Command {
	songsCmd := &cobra.Command{
		Use:   "songs",
		Short: "Inspect stored songs",
	}
	songsCmd.AddCommand(newSongsListCommand(ctx))
	songsCmd.AddCommand(newSongsShowCommand(ctx))
	songsCmd.AddCommand(newSongsDeleteCommand(ctx))
	return songsCmd
}

func newSongsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recently updated songs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				songs, err := st.ListSongs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				summaries := make([]songSummary, 0, len(songs))
				for _, song := range songs {
					summaries = append(summaries, summarizeSong(song))
				}
				if asJSON {
					return writeJSON(cmd, summaries)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No songs stored")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{s.ID, s.Genre, s.Vibe, s.Theme, s.VoiceStyle, formatTime(s.UpdatedAt)})
				}
				fmt.Fprintln(out, renderTable([]column{
					{header: "ID"}, {header: "Genre"}, {header: "Vibe"}, {header: "Theme"},
					{header: "Voice"}, {header: "Updated"},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultListLimit, "Maximum number of songs to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func newSongsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <songId>",
		Short: "Show a song's lyrics and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withStore(func(st *store.Store) error {
				song, err := st.GetSong(cmd.Context(), id)
				if err != nil {
					return err
				}
				if song == nil {
					return fmt.Errorf("song %s not found", id)
				}
				view := songView{songSummary: summarizeSong(song)}
				if err := json.Unmarshal([]byte(song.LyricsJSON), &view.Lyrics); err != nil {
					return fmt.Errorf("decode lyrics: %w", err)
				}
				if json.Valid([]byte(song.MetadataJSON)) {
					view.Metadata = json.RawMessage(song.MetadataJSON)
				}
				generations, err := st.ListVoiceGenerations(cmd.Context(), id)
				if err != nil {
					return err
				}
				view.Voices = make([]voiceView, 0, len(generations))
				for _, gen := range generations {
					view.Voices = append(view.Voices, voiceView{
						VoiceStyle:      gen.VoiceStyle,
						VoicePreset:     gen.VoicePreset,
						Preview:         gen.Preview,
						DurationSeconds: gen.DurationSeconds,
						CreatedAt:       gen.CreatedAt,
					})
				}
				if asJSON {
					return writeJSON(cmd, view)
				}
				renderSong(cmd, view)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderSong(cmd *cobra.Command, view songView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	title := cases.Title(language.English)

	fmt.Fprintln(out, renderHeading(fmt.Sprintf("Song %s", view.ID), colorize))
	fmt.Fprintf(out, "  Genre: %s  Vibe: %s  Theme: %s\n", view.Genre, view.Vibe, view.Theme)
	if view.VoiceStyle != "" {
		fmt.Fprintf(out, "  Voice: %s (%s)\n", view.VoiceStyle, view.VoicePreset)
	}
	fmt.Fprintf(out, "  Created: %s  Updated: %s\n", formatTime(view.CreatedAt), formatTime(view.UpdatedAt))

	for _, section := range view.Lyrics.Sections() {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderHeading("["+title.String(section)+"]", colorize))
		fmt.Fprintln(out, view.Lyrics[section])
	}

	if len(view.Voices) == 0 {
		return
	}
	rows := make([][]string, 0, len(view.Voices))
	for _, v := range view.Voices {
		duration := "-"
		if v.DurationSeconds != nil {
			duration = strconv.FormatFloat(*v.DurationSeconds, 'g', -1, 64) + "s"
		}
		rows = append(rows, []string{v.VoiceStyle, v.VoicePreset, yesNo(v.Preview), duration, formatTime(v.CreatedAt)})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderHeading("Voice generations", colorize))
	fmt.Fprintln(out, renderTable([]column{
		{header: "Style"}, {header: "Preset"}, {header: "Preview"}, {header: "Duration", right: true}, {header: "Created"},
	}, rows))
}

func newSongsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <songId>",
		Short: "Delete a song and its revisions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			return ctx.withStore(func(st *store.Store) error {
				removed, err := st.DeleteSong(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("song %s not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted song %s\n", id)
				return nil
			})
		},
	}
}

func newRevisionsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "revisions <songId>",
		Short: "List a song's revision history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("song id is required")
			}
			return ctx.withStore(func(st *store.Store) error {
				revisions, err := st.ListRevisions(cmd.Context(), id)
				if err != nil {
					return err
				}
				views := make([]revisionView, 0, len(revisions))
				for _, rev := range revisions {
					views = append(views, revisionView{
						ID:           rev.ID,
						RevisionType: rev.RevisionType,
						Instruction:  rev.Instruction,
						CreatedAt:    rev.CreatedAt,
					})
				}
				if asJSON {
					return writeJSON(cmd, views)
				}
				out := cmd.OutOrStdout()
				if len(views) == 0 {
					fmt.Fprintf(out, "No revisions for song %s\n", id)
					return nil
				}
				rows := make([][]string, 0, len(views))
				for i, v := range views {
					rows = append(rows, []string{
						strconv.Itoa(i + 1), v.RevisionType, truncate(v.Instruction, instructionPreview), formatTime(v.CreatedAt),
					})
				}
				fmt.Fprintln(out, renderTable([]column{
					{header: "#", right: true}, {header: "Section"}, {header: "Instruction"}, {header: "Created"},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-3]) + "..."
}
