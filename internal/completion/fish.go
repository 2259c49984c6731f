package completion

import (
	"io"
	"strings"
	"text/template"
)

var fishTemplate = `# Fish completion for mdb
# Install: mdb completion fish > ~/.config/fish/completions/mdb.fish

function __mdb_needs_subcommand
    set -l cmd (commandline -opc)
    set -l skip_next 0
    for word in $cmd[2..-1]
        if test $skip_next -eq 1
            set skip_next 0
            continue
        end
        switch $word
            case --server --log-level --root --color
                set skip_next 1
            case '-*'
            case '*'
                return 1
        end
    end
    return 0
end

function __mdb_using_subcommand
    set -l cmd (commandline -opc)
    set -l skip_next 0
    for word in $cmd[2..-1]
        if test $skip_next -eq 1
            set skip_next 0
            continue
        end
        switch $word
            case --server --log-level --root --color
                set skip_next 1
            case '-*'
            case '*'
                test $word = $argv[1]
                return $status
        end
    end
    return 1
end

function __mdb_types
    mdb --complete-types (commandline -ct) 2>/dev/null
end

complete -c mdb -f

complete -c mdb -l version -d 'print version and exit'
complete -c mdb -l help -d 'show help'
complete -c mdb -l server -r -F -d 'path to the backend executable'
complete -c mdb -l log-level -x -a '{{.LogLevelValues}}' -d 'backend log level'
complete -c mdb -l root -r -a '(__fish_complete_directories)' -d 'workspace root to operate on'
complete -c mdb -l color -x -a '{{.ColorValues}}' -d 'color output mode'

complete -c mdb -n __mdb_needs_subcommand -a new -d 'create a document interactively'
complete -c mdb -n __mdb_needs_subcommand -a types -d 'list document types in the workspace'
complete -c mdb -n __mdb_needs_subcommand -a validate -d 'validate the collection'
complete -c mdb -n __mdb_needs_subcommand -a query -d 'run a query against the collection'
complete -c mdb -n __mdb_needs_subcommand -a mcp -d 'serve mdbase tools over MCP'
complete -c mdb -n __mdb_needs_subcommand -a completion -d 'generate shell completion scripts'

complete -c mdb -n '__mdb_using_subcommand completion' -x -a '{{.Shells}}'
complete -c mdb -n '__mdb_using_subcommand new' -x -a '(__mdb_types)'
`

// GenerateFish writes the fish completion script to the writer.
func GenerateFish(w io.Writer) error {
	tmpl, err := template.New("fish").Parse(fishTemplate)
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
