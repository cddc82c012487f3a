// Package artifact loads the per-run metrics snapshot written by the
// training pipeline.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spboyer/modelreport/internal/models"
	"github.com/spboyer/modelreport/schemas"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultPath is where the pipeline writes its latest run snapshot.
const DefaultPath = "artifacts/latest_run.json"

var (
	// ErrMissingArtifact means the snapshot file does not exist.
	ErrMissingArtifact = errors.New("metrics artifact not found")
	// ErrEmptyComparison means the snapshot has no model_comparison records.
	ErrEmptyComparison = errors.New("no model comparison data found")
	// ErrInvalidArtifact means the snapshot is malformed or fails validation.
	ErrInvalidArtifact = errors.New("invalid metrics artifact")
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// snapshotSchema is the compiled JSON Schema for run snapshots.
var snapshotSchema *jsonschema.Schema

func init() {
	snapshotSchema = mustCompileSchema(schemas.ArtifactSchemaJSON, "artifact.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// Snapshot is the part of a run snapshot this tool reads.
type Snapshot struct {
	Path      string
	RunID     string
	Timestamp string
	Results   []models.ModelResult
}

// ValidationError lists every schema violation found in a snapshot.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Load reads the snapshot at path. Paths ending in .gz are decompressed.
//
// A missing file yields ErrMissingArtifact and a snapshot without records
// yields ErrEmptyComparison; both are wrapped so callers can report them
// with errors.Is.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, path, err)
		}
		defer gz.Close() //nolint:errcheck
		r = gz
	}

	snap, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	snap.Path = path

	slog.Debug("Loaded metrics artifact", "path", path, "models", len(snap.Results), "run_id", snap.RunID)
	return snap, nil
}

// Decode parses and validates a snapshot document.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	if problems := validateAgainstSchema(snapshotSchema, doc); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArtifact, &ValidationError{Problems: problems})
	}

	obj := doc.(map[string]any)
	records, _ := obj["model_comparison"].([]any)
	if len(records) == 0 {
		return nil, ErrEmptyComparison
	}

	results, err := decodeResults(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	snap := &Snapshot{Results: results}
	snap.RunID, _ = obj["run_id"].(string)
	snap.Timestamp, _ = obj["timestamp"].(string)
	return snap, nil
}

// rawResult mirrors one model_comparison record. Fields the pipeline did
// not write decode as zero values.
type rawResult struct {
	ModelName     string    `mapstructure:"model_name"`
	MacroF1       float64   `mapstructure:"macro_f1"`
	Accuracy      float64   `mapstructure:"accuracy"`
	PerClassF1    []float64 `mapstructure:"per_class_f1"`
	IsBaseline    bool      `mapstructure:"is_baseline"`
	IsEnsemble    bool      `mapstructure:"is_ensemble"`
	DeltaFromBest float64   `mapstructure:"delta_from_best"`
	DeltaPct      float64   `mapstructure:"delta_pct"`
}

func decodeResults(records []any) ([]models.ModelResult, error) {
	var raws []rawResult
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raws,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(records); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(raws))
	results := make([]models.ModelResult, 0, len(raws))
	for i, raw := range raws {
		if seen[raw.ModelName] {
			return nil, fmt.Errorf("model_comparison[%d]: duplicate model_name %q", i, raw.ModelName)
		}
		seen[raw.ModelName] = true

		var perClass models.PerClassF1
		if raw.PerClassF1 != nil {
			perClass, err = models.PerClassF1FromSlice(raw.PerClassF1)
			if err != nil {
				return nil, fmt.Errorf("model_comparison[%d]: %w", i, err)
			}
		}

		results = append(results, models.ModelResult{
			ModelName:     raw.ModelName,
			MacroF1:       raw.MacroF1,
			Accuracy:      raw.Accuracy,
			PerClassF1:    perClass,
			IsBaseline:    raw.IsBaseline,
			IsEnsemble:    raw.IsEnsemble,
			DeltaFromBest: raw.DeltaFromBest,
			DeltaPct:      raw.DeltaPct,
		})
	}
	return results, nil
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}
