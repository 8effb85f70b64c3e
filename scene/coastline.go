package scene

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/geojson"
)

// LoadCoastline reads coastline polylines in lon/lat degrees. Files ending in
// .json or .geojson are read as a GeoJSON feature collection, anything else
// as CSV.
func LoadCoastline(path string) (orb.MultiLineString, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".geojson":
		return ReadCoastlineGeoJSON(f)
	default:
		return ReadCoastlineCSV(f)
	}
}

// ReadCoastlineCSV reads "lon,lat" rows. A row starting with ">" or with a
// non numeric longitude ends the current polyline, which allows a header row
// and GMT style segment separators.
func ReadCoastlineCSV(r io.Reader) (orb.MultiLineString, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	var (
		mls  orb.MultiLineString
		line orb.LineString
	)
	flush := func() {
		if len(line) >= 2 {
			mls = append(mls, line)
		}
		line = nil
	}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("coastline csv: %w", err)
		}
		if len(rec) < 2 || strings.HasPrefix(rec[0], ">") {
			flush()
			continue
		}
		lon, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			flush()
			continue
		}
		lat, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("coastline csv row %d: bad latitude %q", row, rec[1])
		}
		line = append(line, orb.Point{lon, lat})
	}
	flush()
	return mls, nil
}

// ReadCoastlineGeoJSON collects every line and polygon boundary of a GeoJSON
// feature collection. Points are ignored.
func ReadCoastlineGeoJSON(r io.Reader) (orb.MultiLineString, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("coastline geojson: %w", err)
	}
	var mls orb.MultiLineString
	for _, feature := range fc.Features {
		mls = appendLines(mls, feature.Geometry)
	}
	return mls, nil
}

func appendLines(mls orb.MultiLineString, g orb.Geometry) orb.MultiLineString {
	switch g := g.(type) {
	case orb.LineString:
		mls = append(mls, g)
	case orb.MultiLineString:
		mls = append(mls, g...)
	case orb.Ring:
		mls = append(mls, orb.LineString(g))
	case orb.Polygon:
		for _, ring := range g {
			mls = append(mls, orb.LineString(ring))
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			mls = appendLines(mls, poly)
		}
	case orb.Collection:
		for _, sub := range g {
			mls = appendLines(mls, sub)
		}
	}
	return mls
}

// CoastlineWindow is the lon/lat bound around (lon, lat) with the given
// half size in degrees.
func CoastlineWindow(lon, lat, half float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{lon - half, lat - half},
		Max: orb.Point{lon + half, lat + half},
	}
}

// ClipCoastline keeps the parts of mls inside b.
func ClipCoastline(mls orb.MultiLineString, b orb.Bound) orb.MultiLineString {
	if len(mls) == 0 {
		return nil
	}
	return clip.MultiLineString(b, mls.Clone())
}
