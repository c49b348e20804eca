package ambience

import (
	"errors"

	"github.com/ncruces/zenity"
)

// Pick asks the user for a soundtrack. It returns "" when the dialog was
// cancelled.
func Pick() (string, error) {
	filename, err := zenity.SelectFile(
		zenity.Title("Choose Backdrop Ambience"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	return filename, nil
}
