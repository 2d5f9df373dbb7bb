// Package media wraps the external tools that turn job inputs into
// transcription-ready audio: ffprobe for inspection, ffmpeg for audio
// extraction, and a yt-dlp style downloader for URL acquisition. Commands
// run through an injectable runner so tests never spawn real tools.
package media
