package container

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Options configures the server. Every field is also settable through a
// SERVICE_-prefixed environment variable.
type Options struct {
	Host        string `default:"0.0.0.0"   help:"Host interface to bind"                                     short:"H"`
	Port        int    `default:"8000"      help:"Port to listen on"                                         short:"p"`
	BaseURL     string `default:""          help:"Public base URL of short links (defaults to http://host:port, localhost for a wildcard host)"`
	CodeLength  int    `default:"6"         help:"Length of generated short codes"                           short:"c"`
	DefaultTTL  int    `default:"3600"      help:"Lifetime of a short link in seconds when the request omits it"`
	RedisAddr   string `default:""          help:"Redis address for analytics streams; empty keeps events in process" short:"r"`
	DatabaseURL string `default:""          help:"Postgres URL for in-process analytics; empty logs events instead"`
	LogFormat   string `default:"console"   enum:"console,json"                                              help:"Log encoding"`
	LogFile     string `default:""          help:"Also write logs to this file, rotated by size"`
	Debug       bool   `default:"false"     help:"Enable debug logging"`
}

// PublicBaseURL is the prefix short codes are appended to.
func (o *Options) PublicBaseURL() string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}

	host := o.Host
	if host == "" || net.ParseIP(host).IsUnspecified() {
		host = "localhost"
	}

	return "http://" + net.JoinHostPort(host, strconv.Itoa(o.Port))
}

// ListenAddr is the address the HTTP server binds to.
func (o *Options) ListenAddr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// LinkTTL is the default link lifetime.
func (o *Options) LinkTTL() time.Duration {
	return time.Duration(o.DefaultTTL) * time.Second
}
