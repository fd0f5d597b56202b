package kml

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/jengzang/trackmap-go/internal/models"
	gokml "github.com/twpayne/go-kml/v3"
)

// Document is a complete KML file
type Document interface {
	WriteIndent(w io.Writer, prefix, indent string) error
}

// Encode writes the document with an XML header, indented four spaces
func Encode(w io.Writer, k Document) error {
	if err := k.WriteIndent(w, "", "    "); err != nil {
		return fmt.Errorf("failed to encode KML: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile encodes the document to path
func WriteFile(path string, k Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, k); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Layer is one KML file of a KMZ archive
type Layer struct {
	FileName    string
	Name        string
	Description string
	Doc         Document
}

// RootDocument is the archive's doc.kml: the camera plus a network link per layer
func RootDocument(view models.ViewFrame, layers []Layer) Document {
	children := []gokml.Element{
		gokml.LookAt(
			gokml.Longitude(view.CenterLongitude),
			gokml.Latitude(view.CenterLatitude),
			gokml.Altitude(view.AltitudeMeters),
			gokml.Range(view.RangeMeters),
			gokml.Tilt(0),
			gokml.Heading(0),
		),
		gokml.Name("GPS to KML"),
		gokml.Description("One or more different contents"),
	}
	for _, l := range layers {
		children = append(children, gokml.NetworkLink(
			gokml.Name(l.Name),
			gokml.Description(l.Description),
			gokml.Link(gokml.Href("kml/"+l.FileName)),
		))
	}
	return gokml.KML(gokml.Document(children...))
}

// WriteKMZ packs doc.kml, the layers under kml/ and the icons found in iconDir under files/
func WriteKMZ(w io.Writer, view models.ViewFrame, layers []Layer, iconDir string) error {
	zw := zip.NewWriter(w)

	add := func(name string, k Document) error {
		entry, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		return Encode(entry, k)
	}

	if err := add("doc.kml", RootDocument(view, layers)); err != nil {
		return err
	}
	for _, l := range layers {
		if err := add("kml/"+l.FileName, l.Doc); err != nil {
			return err
		}
	}

	if iconDir != "" {
		for _, icon := range Icons {
			data, err := os.ReadFile(filepath.Join(iconDir, icon))
			if errors.Is(err, fs.ErrNotExist) {
				log.Printf("[KML] Icon %s not found in %s, skipping", icon, iconDir)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to read icon %s: %w", icon, err)
			}
			entry, err := zw.Create("files/" + icon)
			if err != nil {
				return fmt.Errorf("failed to add icon %s: %w", icon, err)
			}
			if _, err := io.Copy(entry, bytes.NewReader(data)); err != nil {
				return err
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish KMZ: %w", err)
	}
	return nil
}

// WriteKMZFile writes the archive to path
func WriteKMZFile(path string, view models.ViewFrame, layers []Layer, iconDir string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteKMZ(f, view, layers, iconDir); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
