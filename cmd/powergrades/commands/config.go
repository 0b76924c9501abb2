package commands

import (
	configlibsql "powergrades/lib/configutil/libsql"
	"powergrades/lib/scrapers/powerschool"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Config struct {
	// portal login page, ex. http://powerschool.ausd.net
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Month/Day/Year; assignments due before this date don't count
	// toward a course being in progress. defaults to the start of the
	// current school year.
	CutoffDate string                 `json:"cutoff_date"`
	Weights    powerschool.WeightData `json:"weights"`
	Smtp       SmtpConfig             `json:"smtp"`
	// local sqlite file (default grades.db) or a remote libsql url
	Snapshots configlibsql.Struct `json:"snapshots"`
}
