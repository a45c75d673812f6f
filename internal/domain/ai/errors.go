package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyReply oracle balas tanpa konten
var ErrEmptyReply = errors.New("ai empty reply")

// ErrUnreachable oracle gagal dipanggil atau balasannya tidak bisa dipakai.
// Tidak di-retry otomatis.
var ErrUnreachable = errors.New("analysis unreachable")
