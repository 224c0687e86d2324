/*
Package breakout holds application level constants and the service
configuration shared by the command line tool and the REST service.
*/
package breakout

// BuildRevision stores the commit in the git repository at build time and is
// specified with -ldflags at build time.
var BuildRevision = ""
