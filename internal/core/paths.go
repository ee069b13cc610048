package core

import "fmt"

// Artifact paths are pure functions of their identifying tuple. The
// object store is the cache index: presence at the path is a hit, absence
// a miss, and no separate manifest is maintained. The formats below are a
// compatibility surface shared with existing stored artifacts and must
// not change.

// VoiceSamplePath returns the storage path of a user's voice sample.
// Uploads overwrite the previous sample at the same path.
func VoiceSamplePath(userID, ext string) string {
	return fmt.Sprintf("users/%s/voice-sample.%s", userID, ext)
}

// SectionAudioPath returns the storage path of the narration artifact for
// one story section rendered with one user's voice.
func SectionAudioPath(storyID, sectionID, userID string) string {
	return fmt.Sprintf("stories/%s/sections/%s/%s.mp3", storyID, sectionID, userID)
}

// CoverImagePath returns the storage path of a story's cover image.
func CoverImagePath(storyID, ext string) string {
	return fmt.Sprintf("stories/%s/cover.%s", storyID, ext)
}
