package music

import (
	"fmt"
	"strings"

	"github.com/petal-labs/musicbridge/delimited"
)

// Sentinels printed by query scripts instead of delimited fields.
const (
	stoppedMarker  = "STOPPED"
	notFoundMarker = "NOT_FOUND"
)

var (
	fieldSep  = delimited.Script(delimited.FieldSeparator)
	recordSep = delimited.Script(delimited.RecordSeparator)
)

// EscapeScriptString prepares user text for embedding inside an AppleScript
// string literal. Only the double quote is escaped.
func EscapeScriptString(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func tellMusic(statement string) string {
	return fmt.Sprintf(`tell application "Music" to %s`, statement)
}

func setVolumeScript(level int) string {
	return tellMusic(fmt.Sprintf("set sound volume to %d", level))
}

func currentTrackScript() string {
	return fmt.Sprintf(`tell application "Music"
	if player state is stopped then
		return "%s"
	end if
	set t to current track
	return (name of t) & %s & (artist of t) & %s & (album of t) & %s & ((duration of t) as string) & %s & ((player position) as string) & %s & ((player state) as string)
end tell`, stoppedMarker, fieldSep, fieldSep, fieldSep, fieldSep, fieldSep)
}

func libraryStatsScript() string {
	return fmt.Sprintf(`tell application "Music"
	set trackCount to count of tracks of library playlist 1
	set playlistCount to count of user playlists
	return (trackCount as string) & %s & (playlistCount as string)
end tell`, fieldSep)
}

func searchScript(query string, limit int) string {
	return fmt.Sprintf(`tell application "Music"
	set matches to (search library playlist 1 for "%s" only songs)
	set output to ""
	set n to 0
	repeat with t in matches
		if n is greater than or equal to %d then exit repeat
		if n > 0 then set output to output & %s
		set output to output & (name of t) & %s & (artist of t) & %s & (album of t)
		set n to n + 1
	end repeat
	return output
end tell`, EscapeScriptString(query), limit, recordSep, fieldSep, fieldSep)
}

func playSongScript(song string) string {
	return fmt.Sprintf(`tell application "Music"
	set matches to (search library playlist 1 for "%s" only songs)
	if (count of matches) is 0 then
		return "%s"
	end if
	set t to item 1 of matches
	play t
	return (name of t) & %s & (artist of t)
end tell`, EscapeScriptString(song), notFoundMarker, fieldSep)
}
