package commands

const (
	_etc = "/usr/local/etc/github-spreadsheet-connect"
	_var = "/usr/local/var/github-spreadsheet-connect"

	DEFAULT_WORKDIR     = _var
	DEFAULT_CREDENTIALS = _etc + "/.google/credentials.json"
)
