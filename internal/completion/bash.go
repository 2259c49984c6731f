package completion

import (
	"io"
	"strings"
	"text/template"
)

var bashTemplate = `# Bash completion for mdb
# Install: source <(mdb completion bash)
# Or: mdb completion bash > /etc/bash_completion.d/mdb

_mdb_completions() {
    local cur prev words cword
    _init_completion || return

    local subcommands="{{.Subcommands}}"
    local flags="--version --help --server --log-level --root --color"

    case "${prev}" in
        --color)
            COMPREPLY=($(compgen -W "{{.ColorValues}}" -- "${cur}"))
            return 0
            ;;
        --log-level)
            COMPREPLY=($(compgen -W "{{.LogLevelValues}}" -- "${cur}"))
            return 0
            ;;
        --server)
            _filedir
            return 0
            ;;
        --root)
            _filedir -d
            return 0
            ;;
        completion)
            COMPREPLY=($(compgen -W "{{.Shells}}" -- "${cur}"))
            return 0
            ;;
        new)
            local types
            types=$(mdb --complete-types "${cur}" 2>/dev/null)
            if [[ -n "${types}" ]]; then
                COMPREPLY=($(compgen -W "${types}" -- "${cur}"))
            fi
            return 0
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return 0
    fi

    # First positional argument is the subcommand
    local has_subcommand=0
    for ((i=1; i < cword; i++)); do
        local word="${words[i]}"
        if [[ "${word}" == -* ]]; then
            case "${word}" in
                --server|--log-level|--root|--color)
                    ((i++))
                    ;;
            esac
            continue
        fi
        has_subcommand=1
        break
    done

    if [[ ${has_subcommand} -eq 0 ]]; then
        COMPREPLY=($(compgen -W "${subcommands}" -- "${cur}"))
    fi
}

complete -F _mdb_completions mdb
`

// GenerateBash writes the bash completion script to the writer.
func GenerateBash(w io.Writer) error {
	tmpl, err := template.New("bash").Parse(bashTemplate)
	if err != nil {
		return err
	}

	data := struct {
		Subcommands    string
		ColorValues    string
		LogLevelValues string
		Shells         string
	}{
		Subcommands:    strings.Join(Subcommands, " "),
		ColorValues:    strings.Join(ColorValues, " "),
		LogLevelValues: strings.Join(LogLevelValues, " "),
		Shells:         strings.Join(SupportedShells(), " "),
	}

	return tmpl.Execute(w, data)
}
