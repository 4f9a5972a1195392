package config

import (
	"fmt"
	"net/url"
)

// DSN renders the go-sql-driver connection string for the discrete fields.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.Charset, url.QueryEscape(d.Loc))
}
