package mcp

import "github.com/mark3labs/mcp-go/mcp"

var analyzeToolDef = mcp.NewTool("string_analyze",
	mcp.WithDescription("Analyze a string and store it. Returns length, palindrome flag, unique character count, word count, sha256 hash and character frequency map. Fails with ALREADY_EXISTS if the exact value is stored."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The string to analyze (non-empty)"),
	),
)

var getToolDef = mcp.NewTool("string_get",
	mcp.WithDescription("Fetch a stored string by exact, case-sensitive value."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The stored string"),
	),
)

var listToolDef = mcp.NewTool("string_list",
	mcp.WithDescription("List stored strings matching every given filter. Omit all filters to list everything."),
	mcp.WithBoolean("is_palindrome",
		mcp.Description("Only palindromes (true) or non-palindromes (false)"),
	),
	mcp.WithNumber("min_length",
		mcp.Description("Minimum length in characters, inclusive"),
	),
	mcp.WithNumber("max_length",
		mcp.Description("Maximum length in characters, inclusive"),
	),
	mcp.WithNumber("word_count",
		mcp.Description("Exact number of words"),
	),
	mcp.WithString("contains_character",
		mcp.Description("A single character the string must contain (case-insensitive)"),
	),
)

var queryToolDef = mcp.NewTool("string_query",
	mcp.WithDescription("List stored strings using a plain-English query, e.g. \"single word palindromic strings\" or \"strings longer than 10 characters containing the letter z\". Returns the parsed filters alongside the matches."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text query"),
	),
)

var deleteToolDef = mcp.NewTool("string_delete",
	mcp.WithDescription("Delete a stored string by exact value."),
	mcp.WithString("value",
		mcp.Required(),
		mcp.Description("The stored string"),
	),
)

var exportToolDef = mcp.NewTool("string_export",
	mcp.WithDescription("Export every stored string to a JSONL file. Use a .jsonl.zst path for zstd compression. Defaults to ~/.twine/exports/strings-<timestamp>.jsonl."),
	mcp.WithString("path",
		mcp.Description("Destination file (.jsonl or .jsonl.zst)"),
	),
)

var importToolDef = mcp.NewTool("string_import",
	mcp.WithDescription("Import strings from a JSONL export. Properties are recomputed."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source file (.jsonl or .jsonl.zst)"),
	),
	mcp.WithString("mode",
		mcp.Description("error (default): abort on any bad line or duplicate; skip: skip them"),
		mcp.Enum("error", "skip"),
	),
)
