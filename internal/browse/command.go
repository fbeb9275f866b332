package browse

import (
	"fmt"
	"strings"
)

// Command names understood by the REPL.
const (
	CmdSearch     = "search"
	CmdClear      = "clear"
	CmdCategory   = "category"
	CmdSort       = "sort"
	CmdReset      = "reset"
	CmdReload     = "reload"
	CmdCategories = "categories"
	CmdShow       = "show"
	CmdHelp       = "help"
	CmdQuit       = "quit"
)

var commandAliases = map[string]string{
	"s":         CmdSearch,
	"buscar":    CmdSearch,
	"limpar":    CmdClear,
	"c":         CmdCategory,
	"categoria": CmdCategory,
	"o":         CmdSort,
	"ordenar":   CmdSort,
	"ls":        CmdShow,
	"?":         CmdHelp,
	"exit":      CmdQuit,
	"q":         CmdQuit,
	"sair":      CmdQuit,
}

var commandNames = map[string]bool{
	CmdSearch: true, CmdClear: true, CmdCategory: true, CmdSort: true, CmdReset: true,
	CmdReload: true, CmdCategories: true, CmdShow: true, CmdHelp: true, CmdQuit: true,
}

// Command is one parsed REPL line.
type Command struct {
	Name string
	Arg  string
}

// ParseCommand splits line into a command name and its argument. The
// argument keeps inner spaces so multi-word terms and categories work. A
// blank line yields the zero Command.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, nil
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	if alias, ok := commandAliases[name]; ok {
		name = alias
	}
	if !commandNames[name] {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return Command{Name: name, Arg: strings.TrimSpace(arg)}, nil
}

const helpText = `Commands:
  search <term>       filter by title, and description when search_descriptions
                      is set (empty term shows all)
  clear               clear the search term
  category <name>     filter by category (Todos shows all)
  sort <key>          order by default, rating-desc, rating-asc, year-desc, year-asc or alphabetical
  reset               restore the default selection
  reload              fetch the catalog again
  categories          list categories
  show                render the current view
  help                show this help
  quit                leave
`
