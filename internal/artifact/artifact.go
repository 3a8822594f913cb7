// Package artifact persists the trained difficulty model together with
// everything inference needs to rebuild a feature vector.
package artifact

import (
	"bytes"
	"compress/gzip"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/diffeval/internal/gbt"
	"github.com/abhisek/diffeval/internal/prep"
)

// FormatVersion is the artifact layout written by this package. Artifacts
// with a different major version are rejected.
const FormatVersion = "v1.0.0"

// DefaultFile is the model file name inside the working directory.
const DefaultFile = "difficulty_evaluation.model"

// Metrics records how the model scored when it was trained.
type Metrics struct {
	TrainError float64 `json:"train_error"`
	TestError  float64 `json:"test_error"`
	TrainRows  int     `json:"train_rows"`
	TestRows   int     `json:"test_rows"`
}

// Artifact is the serialized model contract between training and inference.
type Artifact struct {
	FormatVersion  string          `json:"format_version"`
	ModelID        string          `json:"model_id"`
	CreatedAt      time.Time       `json:"created_at"`
	FeatureColumns []string        `json:"feature_columns"`
	Classes        []string        `json:"classes"`
	Scaler         *prep.Scaler    `json:"scaler"`
	Model          *gbt.Classifier `json:"model"`
	Metrics        Metrics         `json:"metrics"`
}

// New wraps a trained model in a fresh artifact.
func New(model *gbt.Classifier, scaler *prep.Scaler, columns, classes []string, m Metrics) *Artifact {
	return &Artifact{
		FormatVersion:  FormatVersion,
		ModelID:        uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		FeatureColumns: slices.Clone(columns),
		Classes:        slices.Clone(classes),
		Scaler:         scaler,
		Model:          model,
		Metrics:        m,
	}
}

// Validate checks the artifact is internally consistent.
func (a *Artifact) Validate() error {
	if !semver.IsValid(a.FormatVersion) || semver.Major(a.FormatVersion) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: %q (want %s)", ErrIncompatibleVersion, a.FormatVersion, semver.Major(FormatVersion))
	}
	if a.Model == nil {
		return fmt.Errorf("artifact has no model")
	}
	if a.Scaler == nil {
		return fmt.Errorf("artifact has no scaler")
	}
	if err := a.Scaler.Validate(); err != nil {
		return err
	}
	if a.Model.FeatureSize != len(a.FeatureColumns) {
		return fmt.Errorf("model expects %d features, artifact lists %d columns", a.Model.FeatureSize, len(a.FeatureColumns))
	}
	if a.Model.NumClasses != len(a.Classes) {
		return fmt.Errorf("model predicts %d classes, artifact lists %d", a.Model.NumClasses, len(a.Classes))
	}
	if err := a.Model.Validate(); err != nil {
		return err
	}
	for _, c := range a.Scaler.Columns {
		if !slices.Contains(a.FeatureColumns, c) {
			return fmt.Errorf("scaler column %q is not a feature column", c)
		}
	}
	return nil
}

// Encode writes the artifact as gzip-compressed JSON.
func Encode(w io.Writer, a *Artifact) error {
	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(a); err != nil {
		zw.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress artifact: %w", err)
	}
	return nil
}

// Decode reads an artifact written by Encode, validating it against the
// artifact schema before use.
func Decode(r io.Reader) (*Artifact, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open compressed artifact: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress artifact: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artifact: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Save writes the artifact to path atomically.
func Save(path string, a *Artifact) error {
	return WriteFile(path, func(f *os.File) error {
		return Encode(f, a)
	})
}

// Load reads the artifact at path. Any failure is reported as a *LoadError.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewLoadError(path, err)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, NewLoadError(path, err)
	}
	return a, nil
}

//go:embed artifact.schema.json
var schemaJSON []byte

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse artifact schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://artifact.json"
		if err := c.AddResource(url, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(url)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile artifact schema: %w", schemaErr)
		}
	})
	return schemaCompiled, schemaErr
}
