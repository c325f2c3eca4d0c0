package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	stderrors "persona-match/internal/common/errors"
	"persona-match/internal/common/logger"
)

const personalityTypesSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["name", "description"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"description": {"type": "string", "minLength": 1},
			"traits": {"type": "array", "items": {"type": "string"}},
			"synonyms": {"type": "array", "items": {"type": "string"}},
			"emoji": {"type": "string"}
		}
	}
}`

const productCatalogSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {
			"type": "object",
			"required": ["product", "category"],
			"properties": {
				"product": {"type": "string", "minLength": 1},
				"category": {"type": "string", "minLength": 1}
			}
		}
	}
}`

// Loader reads and validates the static knowledge base files.
type Loader struct {
	personalityPath string
	catalogPath     string
	logger          logger.Logger
}

func NewLoader(personalityPath, catalogPath string, log logger.Logger) *Loader {
	return &Loader{
		personalityPath: personalityPath,
		catalogPath:     catalogPath,
		logger:          log.WithFields(map[string]interface{}{"component": "knowledge"}),
	}
}

// Load reads both lookup files, validates them against their schemas, and
// checks referential integrity between the product catalog and the
// personality list. It fails fast: no partially constructed Base is ever
// returned.
func (l *Loader) Load() (*Base, error) {
	personalities, err := l.loadPersonalityTypes()
	if err != nil {
		return nil, err
	}

	catalog, err := l.loadProductCatalog()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(personalities))
	for _, p := range personalities {
		known[p.Name] = true
	}

	var dangling []string
	for name := range catalog {
		if !known[name] {
			dangling = append(dangling, name)
		}
	}
	if len(dangling) > 0 {
		return nil, stderrors.NewDataIntegrityError(
			fmt.Sprintf("product catalog references unknown personalities: %s", strings.Join(dangling, ", ")))
	}

	l.logger.Info("knowledge base loaded", map[string]interface{}{
		"personalities":  len(personalities),
		"catalogEntries": len(catalog),
	})

	return &Base{
		Personalities:  personalities,
		ProductCatalog: catalog,
	}, nil
}

func (l *Loader) loadPersonalityTypes() ([]PersonalityType, error) {
	raw, err := os.ReadFile(l.personalityPath)
	if err != nil {
		return nil, stderrors.NewKnowledgeBaseUnreadableError(l.personalityPath, err)
	}

	if err := validateAgainstSchema(raw, personalityTypesSchema, l.personalityPath); err != nil {
		return nil, err
	}

	var personalities []PersonalityType
	if err := json.Unmarshal(raw, &personalities); err != nil {
		return nil, stderrors.NewKnowledgeBaseUnreadableError(l.personalityPath, err)
	}

	seen := make(map[string]bool, len(personalities))
	for _, p := range personalities {
		if seen[p.Name] {
			return nil, stderrors.NewDataIntegrityError(
				fmt.Sprintf("duplicate personality name: %s", p.Name))
		}
		seen[p.Name] = true
	}

	return personalities, nil
}

func (l *Loader) loadProductCatalog() (map[string][]Product, error) {
	raw, err := os.ReadFile(l.catalogPath)
	if err != nil {
		return nil, stderrors.NewKnowledgeBaseUnreadableError(l.catalogPath, err)
	}

	if err := validateAgainstSchema(raw, productCatalogSchema, l.catalogPath); err != nil {
		return nil, err
	}

	var catalog map[string][]Product
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, stderrors.NewKnowledgeBaseUnreadableError(l.catalogPath, err)
	}

	return catalog, nil
}

func validateAgainstSchema(document []byte, schema, path string) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return stderrors.NewKnowledgeBaseUnreadableError(path, err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return stderrors.NewKnowledgeBaseInvalidError(path, strings.Join(errs, "; "))
	}

	return nil
}
