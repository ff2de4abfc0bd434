package domain

import (
	"slices"
	"strings"
)

// Markers is the table of names the classifier recognizes as ORM conventions.
type Markers struct {
	// AbstractAttribute marks a class as an abstract base when assigned True.
	AbstractAttribute string `mapstructure:"abstract_attribute" json:"abstract_attribute"`
	// TableNameAttribute declares the table name of a mapped class.
	TableNameAttribute string `mapstructure:"table_name_attribute" json:"table_name_attribute"`
	// TableObjectAttributes declare a table object (or name) on a mapped class.
	TableObjectAttributes []string `mapstructure:"table_object_attributes" json:"table_object_attributes"`
	// BaseNames are base class names that mark a declarative model.
	BaseNames []string `mapstructure:"base_names" json:"base_names"`
	// BaseSuffixes are base class name suffixes that mark a declarative model.
	BaseSuffixes []string `mapstructure:"base_suffixes" json:"base_suffixes"`
	// AttributeBaseNames are attribute names (db.Model) that mark a declarative model.
	AttributeBaseNames []string `mapstructure:"attribute_base_names" json:"attribute_base_names"`
	// DeclarativeDecorators are decorators that turn a class into a declarative base.
	DeclarativeDecorators []string `mapstructure:"declarative_decorators" json:"declarative_decorators"`
	// DeclarativeFactories are calls whose result is usable as a declarative base.
	DeclarativeFactories []string `mapstructure:"declarative_factories" json:"declarative_factories"`
	// ColumnConstructors are calls that declare a mapped column.
	ColumnConstructors []string `mapstructure:"column_constructors" json:"column_constructors"`
	// MappedWrappers are generic annotations that declare a mapped attribute.
	MappedWrappers []string `mapstructure:"mapped_wrappers" json:"mapped_wrappers"`
	// TableModelBases are bases that become tables when given table=True.
	TableModelBases []string `mapstructure:"table_model_bases" json:"table_model_bases"`
	// TableKeyword is the class keyword that flags a table model.
	TableKeyword string `mapstructure:"table_keyword" json:"table_keyword"`
	// ImperativeMappers are calls that map a class imperatively.
	ImperativeMappers []string `mapstructure:"imperative_mappers" json:"imperative_mappers"`
}

// DefaultMarkers returns the SQLAlchemy and SQLModel conventions.
func DefaultMarkers() Markers {
	return Markers{
		AbstractAttribute:     "__abstract__",
		TableNameAttribute:    "__tablename__",
		TableObjectAttributes: []string{"__table__"},
		BaseNames:             []string{"Base", "DeclarativeBase", "Model"},
		BaseSuffixes:          []string{"Base"},
		AttributeBaseNames:    []string{"Model", "DeclarativeBase"},
		DeclarativeDecorators: []string{"as_declarative", "declarative_base"},
		DeclarativeFactories:  []string{"declarative_base"},
		ColumnConstructors:    []string{"Column", "mapped_column"},
		MappedWrappers:        []string{"Mapped"},
		TableModelBases:       []string{"SQLModel"},
		TableKeyword:          "table",
		ImperativeMappers:     []string{"map_imperatively"},
	}
}

// Merge returns a copy of m with the names in extra appended.
// Scalar attributes in extra replace those of m when set.
func (m Markers) Merge(extra Markers) Markers {
	out := m.Clone()
	if extra.AbstractAttribute != "" {
		out.AbstractAttribute = extra.AbstractAttribute
	}
	if extra.TableNameAttribute != "" {
		out.TableNameAttribute = extra.TableNameAttribute
	}
	if extra.TableKeyword != "" {
		out.TableKeyword = extra.TableKeyword
	}
	out.TableObjectAttributes = union(out.TableObjectAttributes, extra.TableObjectAttributes)
	out.BaseNames = union(out.BaseNames, extra.BaseNames)
	out.BaseSuffixes = union(out.BaseSuffixes, extra.BaseSuffixes)
	out.AttributeBaseNames = union(out.AttributeBaseNames, extra.AttributeBaseNames)
	out.DeclarativeDecorators = union(out.DeclarativeDecorators, extra.DeclarativeDecorators)
	out.DeclarativeFactories = union(out.DeclarativeFactories, extra.DeclarativeFactories)
	out.ColumnConstructors = union(out.ColumnConstructors, extra.ColumnConstructors)
	out.MappedWrappers = union(out.MappedWrappers, extra.MappedWrappers)
	out.TableModelBases = union(out.TableModelBases, extra.TableModelBases)
	out.ImperativeMappers = union(out.ImperativeMappers, extra.ImperativeMappers)
	return out
}

// Clone returns a deep copy of m.
func (m Markers) Clone() Markers {
	out := m
	out.TableObjectAttributes = slices.Clone(m.TableObjectAttributes)
	out.BaseNames = slices.Clone(m.BaseNames)
	out.BaseSuffixes = slices.Clone(m.BaseSuffixes)
	out.AttributeBaseNames = slices.Clone(m.AttributeBaseNames)
	out.DeclarativeDecorators = slices.Clone(m.DeclarativeDecorators)
	out.DeclarativeFactories = slices.Clone(m.DeclarativeFactories)
	out.ColumnConstructors = slices.Clone(m.ColumnConstructors)
	out.MappedWrappers = slices.Clone(m.MappedWrappers)
	out.TableModelBases = slices.Clone(m.TableModelBases)
	out.ImperativeMappers = slices.Clone(m.ImperativeMappers)
	return out
}

// IsZero reports whether no marker is set.
func (m Markers) IsZero() bool {
	return m.AbstractAttribute == "" &&
		m.TableNameAttribute == "" &&
		m.TableKeyword == "" &&
		len(m.TableObjectAttributes) == 0 &&
		len(m.BaseNames) == 0 &&
		len(m.BaseSuffixes) == 0 &&
		len(m.AttributeBaseNames) == 0 &&
		len(m.DeclarativeDecorators) == 0 &&
		len(m.DeclarativeFactories) == 0 &&
		len(m.ColumnConstructors) == 0 &&
		len(m.MappedWrappers) == 0 &&
		len(m.TableModelBases) == 0 &&
		len(m.ImperativeMappers) == 0
}

// Fingerprint returns a canonical, order-independent rendering of the table.
func (m Markers) Fingerprint() string {
	fields := []string{
		m.AbstractAttribute,
		m.TableNameAttribute,
		m.TableKeyword,
		sortedJoin(m.TableObjectAttributes),
		sortedJoin(m.BaseNames),
		sortedJoin(m.BaseSuffixes),
		sortedJoin(m.AttributeBaseNames),
		sortedJoin(m.DeclarativeDecorators),
		sortedJoin(m.DeclarativeFactories),
		sortedJoin(m.ColumnConstructors),
		sortedJoin(m.MappedWrappers),
		sortedJoin(m.TableModelBases),
		sortedJoin(m.ImperativeMappers),
	}
	return strings.Join(fields, ";")
}

// HasBaseName reports whether name is a declarative base name or carries a base suffix.
func (m *Markers) HasBaseName(name string) bool {
	if slices.Contains(m.BaseNames, name) {
		return true
	}
	for _, suffix := range m.BaseSuffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// HasAttributeBaseName reports whether attr names a declarative base reached through attribute access.
func (m *Markers) HasAttributeBaseName(attr string) bool {
	if slices.Contains(m.AttributeBaseNames, attr) {
		return true
	}
	for _, suffix := range m.BaseSuffixes {
		if suffix != "" && strings.HasSuffix(attr, suffix) {
			return true
		}
	}
	return false
}

func union(a, b []string) []string {
	for _, s := range b {
		if !slices.Contains(a, s) {
			a = append(a, s)
		}
	}
	return a
}

func sortedJoin(s []string) string {
	c := slices.Clone(s)
	slices.Sort(c)
	return strings.Join(c, ",")
}
