package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions for the msg_* tool family. Descriptions are what the
// model sees, so they spell out defaults and addressing rules.

var dumpToolDef = mcp.NewTool("msg_dump",
	mcp.WithDescription("Decode a binary message archive (.msg/.bin) into an editable text file. One message per line, with a '# Key: 0xHHHH' header. Corrupt entries are skipped and reported as diagnostics."),
	mcp.WithString("in", mcp.Required(), mcp.Description("Path to the binary archive to read (.msg or .bin)")),
	mcp.WithString("out", mcp.Description("Path for the text file (.txt); defaults to the input path with a .txt extension")),
)

var buildToolDef = mcp.NewTool("msg_build",
	mcp.WithDescription("Encode a text file back into a binary message archive. Characters and commands with no table mapping degrade to null codes with warnings; the build still succeeds."),
	mcp.WithString("in", mcp.Required(), mcp.Description("Path to the text file to read (.txt)")),
	mcp.WithString("out", mcp.Description("Path for the binary archive (.msg or .bin); defaults to the input path with a .msg extension")),
	mcp.WithString("key", mcp.Description("Obfuscation key override, e.g. '0x1A2B'; defaults to the key in the file's header, or 0x0000")),
)

var inspectToolDef = mcp.NewTool("msg_inspect",
	mcp.WithDescription("Decode a binary message archive and report its key, message count, per-message previews, and diagnostics. Writes nothing."),
	mcp.WithString("in", mcp.Required(), mcp.Description("Path to the binary archive to read (.msg or .bin)")),
	mcp.WithNumber("preview", mcp.Description("Preview only the first N messages; omit for all")),
)

var patchToolDef = mcp.NewTool("msg_patch",
	mcp.WithDescription("Replace one message in a binary archive by index and rewrite the file. Refused when the archive has corrupt entries; dump and rebuild those instead."),
	mcp.WithString("in", mcp.Required(), mcp.Description("Path to the binary archive to edit (.msg or .bin)")),
	mcp.WithString("out", mcp.Description("Where to write the result; defaults to editing in place")),
	mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index of the message to replace")),
	mcp.WithString("text", mcp.Required(), mcp.Description("Replacement message text, in the same syntax msg_dump produces")),
)

var appendToolDef = mcp.NewTool("msg_append",
	mcp.WithDescription("Add a message to the end of a binary archive and rewrite the file. Refused when the archive has corrupt entries."),
	mcp.WithString("in", mcp.Required(), mcp.Description("Path to the binary archive to edit (.msg or .bin)")),
	mcp.WithString("out", mcp.Description("Where to write the result; defaults to editing in place")),
	mcp.WithString("text", mcp.Required(), mcp.Description("Message text to append, in the same syntax msg_dump produces")),
)

var indexToolDef = mcp.NewTool("msg_index",
	mcp.WithDescription("Decode a binary archive and store its messages in the local search index under a (game, name) address. Returns the archive's new id."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Path to the binary archive to index (.msg or .bin)")),
	mcp.WithString("game", mcp.Description("Game the archive belongs to; defaults to 'default'")),
	mcp.WithString("name", mcp.Description("Name for the archive; defaults to the file name without its extension")),
	mcp.WithString("mode", mcp.Description("Conflict handling when (game, name) already exists: 'error' (default) or 'replace'")),
)

var fetchToolDef = mcp.NewTool("msg_fetch",
	mcp.WithDescription("Retrieve an indexed archive and its message text. Address by id, or by game and name. Messages are paged unless a single message index is requested."),
	mcp.WithString("id", mcp.Description("Archive id; mutually exclusive with game/name")),
	mcp.WithString("game", mcp.Description("Game of the archive; defaults to 'default' when addressing by name")),
	mcp.WithString("name", mcp.Description("Name of the archive")),
	mcp.WithNumber("message", mcp.Description("Fetch exactly this 0-based message instead of a page")),
	mcp.WithNumber("limit", mcp.Description("Messages per page, default 50, max 500")),
	mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
)

var listToolDef = mcp.NewTool("msg_list",
	mcp.WithDescription("List indexed archives for one game, newest first."),
	mcp.WithString("game", mcp.Description("Game to list; defaults to 'default'")),
	mcp.WithNumber("limit", mcp.Description("Archives per page, default 20, max 100")),
	mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
)

var searchToolDef = mcp.NewTool("msg_search",
	mcp.WithDescription("Search indexed message text for a substring, case-insensitively. Returns context snippets with archive addresses."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Substring to search for, at most 256 bytes")),
	mcp.WithString("game", mcp.Description("Restrict the search to one game")),
	mcp.WithNumber("limit", mcp.Description("Hits per page, default 20, max 100")),
	mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
)

var inventoryToolDef = mcp.NewTool("msg_inventory",
	mcp.WithDescription("Roll the index up by game: archive and message counts plus last-updated times."),
)

var purgeToolDef = mcp.NewTool("msg_purge",
	mcp.WithDescription("Remove archives from the index. Give exactly one of id, game, or all; a bare call is refused. On-disk files are never touched."),
	mcp.WithString("id", mcp.Description("Remove one archive by id")),
	mcp.WithString("game", mcp.Description("Remove every archive of one game")),
	mcp.WithBoolean("all", mcp.Description("Remove the whole index")),
)
