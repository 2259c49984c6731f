package completion

import (
	"io"
	"strings"
	"text/template"
)

var zshTemplate = `#compdef mdb
# Zsh completion for mdb
# Install: mdb completion zsh > "${fpath[1]}/_mdb"
# Or: source <(mdb completion zsh)

_mdb() {
    local curcontext="$curcontext" state line
    typeset -A opt_args

    _arguments -C \
        '--version[print version and exit]' \
        '--help[show help]' \
        '--server[path to the backend executable]:path:_files' \
        '--log-level[backend log level]:level:({{.LogLevelValues}})' \
        '--root[workspace root to operate on]:directory:_files -/' \
        '--color[color output mode]:mode:({{.ColorValues}})' \
        '1:subcommand:->subcommand' \
        '*::arg:->args'

    case "${state}" in
        subcommand)
            local -a subcommands
            subcommands=(
                'new:create a document interactively'
                'types:list document types in the workspace'
                'validate:validate the collection'
                'query:run a query against the collection'
                'mcp:serve mdbase tools over MCP'
                'completion:generate shell completion scripts'
            )
            _describe 'subcommand' subcommands
            ;;
        args)
            case "${line[1]}" in
                completion)
                    local -a shells
                    shells=({{.Shells}})
                    _describe 'shell' shells
                    ;;
                new)
                    local -a types
                    types=(${(f)"$(mdb --complete-types "${words[CURRENT]}" 2>/dev/null)"})
                    if (( ${#types} )); then
                        _describe 'type' types
                    fi
                    ;;
            esac
            ;;
    esac
}

_mdb "$@"
`

// GenerateZsh writes the zsh completion script to the writer.
func GenerateZsh(w io.Writer) error {
	tmpl, err := template.New("zsh").Parse(zshTemplate)
	if err != nil {
		return err
	}

	data := struct {
		ColorValues    string
		LogLevelValues string
		Shells         string
	}{
		ColorValues:    strings.Join(ColorValues, " "),
		LogLevelValues: strings.Join(LogLevelValues, " "),
		Shells:         strings.Join(SupportedShells(), " "),
	}

	return tmpl.Execute(w, data)
}
