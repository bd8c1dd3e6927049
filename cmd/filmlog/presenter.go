package main

import (
	"fmt"
	"io"
	"strconv"

	"filmlog/internal/archive"
	"filmlog/internal/metadata"
	"filmlog/internal/verification"
)

// posterPlaceholder is shown whenever no verified poster is available.
const posterPlaceholder = "(no poster)"

// presenter is the terminal side of a session. It keeps the preview that a
// graphical shell would draw next to the form.
type presenter struct {
	out      io.Writer
	colorize bool
	poster   string
	preview  *metadata.Snapshot
}

func newPresenter(out io.Writer) *presenter {
	return &presenter{
		out:      out,
		colorize: shouldColorize(out),
		poster:   posterPlaceholder,
	}
}

func (p *presenter) VerificationChanged(state verification.State, snapshot *metadata.Snapshot) {
	if state != verification.Verified || snapshot == nil {
		p.poster = posterPlaceholder
		p.preview = nil
		return
	}
	snap := *snapshot
	p.preview = &snap
	p.poster = snap.PosterURL
	if p.poster == "" {
		p.poster = posterPlaceholder
	}
	fmt.Fprintln(p.out, renderStatusLine("Verified", statusOK, describeSnapshot(snap), p.colorize))
	fmt.Fprintln(p.out, renderStatusLine("Poster", statusInfo, p.poster, p.colorize))
}

func (p *presenter) Committed(id string, rec archive.Record) {
	fmt.Fprintln(p.out, renderStatusLine("Committed", statusOK,
		fmt.Sprintf("#%s %s (%s)", id, rec.Title, formatDate(rec)), p.colorize))
}

func (p *presenter) failure(label string, err error) {
	fmt.Fprintln(p.out, renderStatusLine(label, statusError, err.Error(), p.colorize))
}

func (p *presenter) warn(label, message string) {
	fmt.Fprintln(p.out, renderStatusLine(label, statusWarn, message, p.colorize))
}

func (p *presenter) info(label, message string) {
	fmt.Fprintln(p.out, renderStatusLine(label, statusInfo, message, p.colorize))
}

func describeSnapshot(snap metadata.Snapshot) string {
	label := snap.Title
	if snap.Year > 0 {
		label += " (" + strconv.Itoa(snap.Year) + ")"
	}
	if snap.TMDBID > 0 {
		label += " tmdb:" + strconv.FormatInt(snap.TMDBID, 10)
	}
	return label
}

func formatDate(rec archive.Record) string {
	return fmt.Sprintf("%02d/%02d/%04d", rec.Day, rec.Month, rec.Year)
}
