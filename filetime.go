package pk2

import "time"

// filetimeEpochOffset is the number of 100-ns ticks between the Windows
// FILETIME epoch (1601-01-01 UTC) and the Unix epoch (1970-01-01 UTC).
const filetimeEpochOffset uint64 = 116444736000000000

// filetimeTicksPerSecond is the number of 100-ns ticks in one second.
const filetimeTicksPerSecond uint64 = 10000000

// FileTime is an opaque Windows FILETIME value: 100-ns ticks since
// 1601-01-01 UTC.
type FileTime uint64

// Time converts a FileTime to a time.Time in UTC.
func (f FileTime) Time() time.Time {
	if uint64(f) < filetimeEpochOffset {
		return time.Unix(0, 0).UTC()
	}
	ticks := uint64(f) - filetimeEpochOffset
	seconds := int64(ticks / filetimeTicksPerSecond)
	nanos := int64(ticks%filetimeTicksPerSecond) * 100
	return time.Unix(seconds, nanos).UTC()
}

// NewFileTime converts a time.Time to a FileTime.
func NewFileTime(t time.Time) FileTime {
	secs := t.Unix()
	nanos := int64(t.Nanosecond())
	ticks := filetimeEpochOffset + uint64(secs)*filetimeTicksPerSecond + uint64(nanos/100)
	return FileTime(ticks)
}
