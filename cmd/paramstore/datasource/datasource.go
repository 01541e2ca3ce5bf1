package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/opsline/paramstore/models/param"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// DataSourceService handles database operations and query management. SQL
// lives in files under the query directory and is loaded by name, so the
// statements can be tuned without recompiling.
type DataSourceService struct {
	db      *sqlx.DB
	queries map[string]string // query name -> SQL
	log     zerolog.Logger
}

// NewDataSourceService creates a new DataSourceService
func NewDataSourceService(db *sqlx.DB, log zerolog.Logger) *DataSourceService {
	return &DataSourceService{
		db:      db,
		queries: make(map[string]string),
		log:     log,
	}
}

// LoadQueryFile loads a single query file. The query name is the file name
// without extension (e.g. "parameters.sql" -> "parameters").
func (svc *DataSourceService) LoadQueryFile(filePath string) error {
	name := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	query, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read query file %s: %w", filePath, err)
	}

	svc.queries[name] = string(query)
	svc.log.Debug().
		Str("query", name).
		Str("file", filePath).
		Msg("Loaded query file")

	return nil
}

// LoadQueryDirectory loads all SQL files from a directory
func (svc *DataSourceService) LoadQueryDirectory(dirPath string) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read query directory %s: %w", dirPath, err)
	}

	var loadErrors []error
	loaded := 0

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		filePath := filepath.Join(dirPath, file.Name())
		if err := svc.LoadQueryFile(filePath); err != nil {
			loadErrors = append(loadErrors, err)
			svc.log.Error().Err(err).
				Str("file", file.Name()).
				Msg("Failed to load query file")
			continue
		}
		loaded++
	}

	svc.log.Info().
		Int("total_files", len(files)).
		Int("loaded", loaded).
		Int("errors", len(loadErrors)).
		Str("directory", dirPath).
		Msg("Completed loading query files")

	if len(loadErrors) > 0 {
		return fmt.Errorf("encountered %d errors while loading query files", len(loadErrors))
	}

	return nil
}

// GetQuery retrieves a loaded query by name
func (svc *DataSourceService) GetQuery(name string) (string, error) {
	query, exists := svc.queries[name]
	if !exists {
		return "", fmt.Errorf("no query loaded with name: %s", name)
	}
	return query, nil
}

// ReadParameters executes the "parameters" query and groups the row set into
// parameter records. The query yields one row per parameter/label/tag
// combination; grouping happens here.
func (svc *DataSourceService) ReadParameters() ([]*param.Parameter, error) {
	query, err := svc.GetQuery("parameters")
	if err != nil {
		return nil, err
	}

	rows, err := svc.db.Queryx(query)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	parameters := make(map[string]*param.Parameter)
	order := make([]string, 0)

	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}

		// Remove NULL values
		for key, value := range row {
			if value == nil {
				delete(row, key)
			}
		}

		name := asString(row["name"])
		if name == "" {
			continue
		}
		if _, exists := parameters[name]; !exists {
			parameters[name] = svc.parameterFromRow(name, row)
			order = append(order, name)
		}
		svc.mergeRow(parameters[name], row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	results := make([]*param.Parameter, 0, len(parameters))
	for _, name := range order {
		results = append(results, parameters[name])
	}

	svc.log.Debug().
		Int("parameters", len(results)).
		Msg("Read parameters from database")

	return results, nil
}

// ReadParameter reads a single parameter by name.
func (svc *DataSourceService) ReadParameter(name string) (*param.Parameter, error) {
	all, err := svc.ReadParameters()
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("parameter not found: %s", name)
}

func (svc *DataSourceService) parameterFromRow(name string, row map[string]interface{}) *param.Parameter {
	p := &param.Parameter{
		Name:     name,
		Type:     param.ParameterType(asString(row["type"])),
		Value:    asString(row["value"]),
		Version:  asInt64(row["version"]),
		Tier:     param.ParameterTier(asString(row["tier"])),
		DataType: asString(row["data_type"]),
		KeyID:    asString(row["key_id"]),
		Tags:     make(map[string]string),
	}

	if modified, ok := row["last_modified_date"].(time.Time); ok {
		p.LastModifiedDate = modified
	}

	return p
}

// mergeRow folds one row's label and tag columns into the parameter.
func (svc *DataSourceService) mergeRow(p *param.Parameter, row map[string]interface{}) {
	if label := asString(row["label"]); label != "" && !slices.Contains(p.Labels, label) {
		p.Labels = append(p.Labels, label)
	}

	if tagKey := asString(row["tag_key"]); tagKey != "" {
		p.Tags[tagKey] = asString(row["tag_value"])
	}
}

// asString tolerates both string and []byte column representations.
func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case []byte:
		var n int64
		fmt.Sscanf(string(v), "%d", &n)
		return n
	default:
		return 0
	}
}
