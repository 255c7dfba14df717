package commands

const (
	_etc = "/usr/local/etc/com.github.5dogs.spreadsheet-connect"
	_var = "/usr/local/var/com.github.5dogs.spreadsheet-connect"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
