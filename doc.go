/*
Package connect publishes a spreadsheet worksheet to a GitHub repository as a CSV file.

The worksheet is read from Google Sheets (or a local Excel workbook), encoded as CSV and committed
to the configured repository path through the GitHub contents API, creating the file if it does not
exist and updating it otherwise.

github-spreadsheet-connect supports the following commands:

  - authorise, to authorise application access to the Google Sheets worksheet
  - get, to download a worksheet as a local CSV file
  - sync, to publish the worksheet to GitHub
  - test-connection, to verify the GitHub token and repository settings
  - install-schedule, to register the recurring sync (hourly by default)
  - run, to run the registered sync schedule, optionally with an HTTP endpoint for manual syncs
*/
package connect
