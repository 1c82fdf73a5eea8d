package symbols

import (
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// languageSpec describes one grammar: the extensions it's dispatched for
// and the tree-sitter query whose `.name` captures name symbols. The
// teacher's community-parser adapter (for grammars outside the standard
// go-tree-sitter org, originally only Zig) generalizes cleanly to every
// language here: one table, one setup path, no per-language boilerplate.
type languageSpec struct {
	extensions []string
	language   func() *tree_sitter.Language
	query      string
}

func languageTable() []languageSpec {
	return []languageSpec{
		{
			extensions: []string{".go"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_go.Language()) },
			query: `
				(function_declaration name: (identifier) @function.name) @function
				(method_declaration name: (field_identifier) @method.name) @method
				(type_declaration (type_spec name: (type_identifier) @type.name)) @type
				(const_declaration (const_spec name: (identifier) @const.name)) @const
				(var_declaration (var_spec name: (identifier) @variable.name)) @variable
			`,
		},
		{
			extensions: []string{".js", ".jsx"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_javascript.Language()) },
			query: `
				(function_declaration name: (identifier) @function.name) @function
				(generator_function_declaration name: (identifier) @function.name) @function
				(variable_declarator
					name: (identifier) @function.name
					value: [(arrow_function) (function_expression) (generator_function)]) @function
				(variable_declarator
					name: (identifier) @variable.name
					value: (_) @variable.value) @variable
				(method_definition name: (property_identifier) @method.name) @method
				(class_declaration name: (identifier) @class.name) @class
			`,
		},
		{
			extensions: []string{".ts", ".tsx"},
			language: func() *tree_sitter.Language {
				return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
			},
			query: `
				(function_declaration name: (identifier) @function.name) @function
				(generator_function_declaration name: (identifier) @function.name) @function
				(method_definition name: (property_identifier) @method.name) @method
				(function_expression name: (identifier) @function.name) @function
				(class_declaration name: (type_identifier) @class.name) @class
				(interface_declaration name: (type_identifier) @interface.name) @interface
				(type_alias_declaration name: (type_identifier) @type.name) @type
				(enum_declaration name: (identifier) @enum.name) @enum
			`,
		},
		{
			extensions: []string{".py"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_python.Language()) },
			query: `
				(class_definition
					body: (block
						(function_definition name: (identifier) @method.name))) @method
				(function_definition name: (identifier) @function.name) @function
				(class_definition name: (identifier) @class.name) @class
			`,
		},
		{
			extensions: []string{".rs"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_rust.Language()) },
			query: `
				(impl_item
					body: (declaration_list
						(function_item name: (identifier) @method.name))) @method
				(trait_item
					body: (declaration_list
						(function_item name: (identifier) @method.name))) @method
				(function_item name: (identifier) @function.name) @function
				(struct_item name: (type_identifier) @struct.name) @struct
				(enum_item name: (type_identifier) @enum.name) @enum
				(trait_item name: (type_identifier) @interface.name) @interface
				(type_item name: (type_identifier) @type.name) @type
				(mod_item name: (identifier) @module.name) @module
			`,
		},
		{
			extensions: []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_cpp.Language()) },
			query: `
				(function_definition declarator: (function_declarator declarator: (identifier) @function.name)) @function
				(class_specifier name: (type_identifier) @class.name) @class
				(struct_specifier name: (type_identifier) @struct.name) @struct
				(enum_specifier name: (type_identifier) @enum.name) @enum
			`,
		},
		{
			extensions: []string{".java"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_java.Language()) },
			query: `
				(method_declaration name: (identifier) @method.name) @method
				(constructor_declaration name: (identifier) @constructor.name) @constructor
				(class_declaration name: (identifier) @class.name) @class
				(record_declaration name: (identifier) @class.name) @class
				(interface_declaration name: (identifier) @interface.name) @interface
				(enum_declaration name: (identifier) @enum.name) @enum
				(field_declaration declarator: (variable_declarator name: (identifier) @field.name)) @field
			`,
		},
		{
			extensions: []string{".cs"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_csharp.Language()) },
			query: `
				(method_declaration name: (identifier) @method.name) @method
				(constructor_declaration name: (identifier) @constructor.name) @constructor
				(class_declaration name: (identifier) @class.name) @class
				(interface_declaration name: (identifier) @interface.name) @interface
				(struct_declaration name: (identifier) @struct.name) @struct
				(record_declaration name: (identifier) @record.name) @record
				(enum_declaration name: (identifier) @enum.name) @enum
				(property_declaration name: (identifier) @property.name) @property
				(field_declaration
					(variable_declaration
						(variable_declarator (identifier) @field.name))) @field
				(delegate_declaration name: (identifier) @delegate.name) @delegate
			`,
		},
		{
			extensions: []string{".php", ".phtml"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHP()) },
			query: `
				(class_declaration name: (name) @class.name) @class
				(interface_declaration name: (name) @interface.name) @interface
				(trait_declaration name: (name) @trait.name) @trait
				(enum_declaration name: (name) @enum.name) @enum
				(function_definition name: (name) @function.name) @function
				(method_declaration name: (name) @method.name) @method
			`,
		},
		{
			extensions: []string{".zig"},
			language:   func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_zig.Language()) },
			query: `
				(function_declaration (identifier) @function.name) @function
				(variable_declaration
					(identifier) @struct.name
					(struct_declaration) @struct)
				(variable_declaration
					(identifier) @struct.name
					(union_declaration) @struct)
			`,
		},
	}
}

// kindByPrefix maps a capture's dotted prefix (e.g. "function" out of
// "function.name") to the Symbol kind it denotes. Prefixes absent from
// this table (e.g. "import", "using") are container or
// non-identifier captures and never produce a Record.
var kindByPrefix = map[string]Kind{
	"function":    Function,
	"method":      Method,
	"constructor": Method,
	"class":       Class,
	"struct":      Type,
	"interface":   Interface,
	"trait":       Interface,
	"enum":        Enum,
	"type":        Type,
	"field":       Field,
	"property":    Field,
	"variable":    Variable,
	"const":       Constant,
	"constant":    Constant,
	"parameter":   Parameter,
	"module":      Module,
	"namespace":   Module,
	"record":      Type,
	"delegate":    Type,
	"event":       Field,
}
