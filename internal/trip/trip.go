package trip

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRootFolder is the vault folder trips are created under when no
// root folder is configured.
const DefaultRootFolder = "Trips"

// Artifact labels and the document names they are written to.
const (
	LabelItinerary   = "Itinerary"
	LabelPackingList = "Packing List"

	ItineraryFile   = "Trip Itinerary.md"
	PackingListFile = "Packing List.md"
)

// ErrInvalidInput is returned by Derive when a required field is empty.
var ErrInvalidInput = errors.New("invalid trip input")

// Request is the user-supplied trip metadata.
type Request struct {
	Destination string
	Month       string
	// DurationDays is advisory; zero means not provided.
	DurationDays int
}

// Artifact is one starter document of a trip.
type Artifact struct {
	Label string
	Path  string
}

// Location is the derived vault layout of a trip.
type Location struct {
	FolderPath string
	Artifacts  []Artifact
}

// artifactFiles fixes the order documents are created and reported in.
var artifactFiles = []struct {
	label string
	file  string
}{
	{LabelItinerary, ItineraryFile},
	{LabelPackingList, PackingListFile},
}

// Labels returns the artifact labels in creation order.
func Labels() []string {
	labels := make([]string, 0, len(artifactFiles))
	for _, a := range artifactFiles {
		labels = append(labels, a.label)
	}
	return labels
}

// Validate reports which required field, if any, is empty after trimming.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidInput)
	}
	if strings.TrimSpace(r.Month) == "" {
		return fmt.Errorf("%w: month is required", ErrInvalidInput)
	}
	return nil
}

// FolderName returns "{destination}-{month}" from the raw field values.
// Path-unsafe characters are kept as-is.
func (r Request) FolderName() string {
	return r.Destination + "-" + r.Month
}

// Derive maps a request to its folder and artifact paths under rootFolder.
// Paths are slash-delimited and relative to the vault root.
func Derive(req Request, rootFolder string) (Location, error) {
	if err := req.Validate(); err != nil {
		return Location{}, err
	}

	root := strings.TrimRight(rootFolder, "/")
	if strings.TrimSpace(root) == "" {
		root = DefaultRootFolder
	}

	folder := root + "/" + req.FolderName()
	loc := Location{
		FolderPath: folder,
		Artifacts:  make([]Artifact, 0, len(artifactFiles)),
	}
	for _, a := range artifactFiles {
		loc.Artifacts = append(loc.Artifacts, Artifact{
			Label: a.label,
			Path:  folder + "/" + a.file,
		})
	}
	return loc, nil
}
