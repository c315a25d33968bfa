package export

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lamim/imglabel/internal/task"
	"github.com/lamim/imglabel/internal/util"
	"github.com/lamim/imglabel/pkg/models"
)

const (
	// FolderImages marks a labeled file found in the source directory
	FolderImages = "images"
	// FolderNotFound marks a labeled file missing from the source directory
	FolderNotFound = "not_found"
	// FolderUnlabeled is the destination of task images without a label
	FolderUnlabeled = "unlabeled"

	// timeLayout is used for modification times in the CSV and report
	timeLayout = "2006-01-02 15:04:05"
	// notAvailable replaces the modification time of missing files
	notAvailable = "N/A"
)

// Entry describes one image as it is exported
type Entry struct {
	Filename string
	Label    models.Label // Empty for unlabeled images
	Exists   bool
	Size     int64
	ModTime  time.Time
}

// Folder is the CSV location tag of the entry
func (e Entry) Folder() string {
	if e.Exists {
		return FolderImages
	}
	return FolderNotFound
}

// ModTimeString formats the modification time, or N/A for missing files
func (e Entry) ModTimeString() string {
	if !e.Exists {
		return notAvailable
	}
	return e.ModTime.Format(timeLayout)
}

// statEntry looks up name in sourceDir; size and time stay zero when it is
// absent or not a plain filename
func statEntry(sourceDir, name string, label models.Label) Entry {
	entry := Entry{Filename: name, Label: label}
	if !util.IsPlainName(name) {
		return entry
	}
	info, err := os.Stat(filepath.Join(sourceDir, name))
	if err != nil || !info.Mode().IsRegular() {
		return entry
	}
	entry.Exists = true
	entry.Size = info.Size()
	entry.ModTime = info.ModTime()
	return entry
}

// LabeledEntries returns one entry per progress record key, sorted by filename
func LabeledEntries(record *models.ProgressRecord, sourceDir string) []Entry {
	names := make([]string, 0, len(record.LabeledFiles))
	for name := range record.LabeledFiles {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, statEntry(sourceDir, name, record.LabeledFiles[name]))
	}
	return entries
}

// UnlabeledEntries returns the task images without a record entry that
// exist in sourceDir with an accepted image extension, sorted by filename
func UnlabeledEntries(descriptor *models.TaskDescriptor, record *models.ProgressRecord, sourceDir string) []Entry {
	seen := make(map[string]bool, len(descriptor.Images))
	var entries []Entry
	for _, name := range descriptor.Images {
		if seen[name] {
			continue
		}
		seen[name] = true

		if _, labeled := record.LabeledFiles[name]; labeled || !task.IsImageFile(name) {
			continue
		}
		entry := statEntry(sourceDir, name, "")
		if entry.Exists {
			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })
	return entries
}
