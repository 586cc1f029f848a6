// Package config parses txtsync configuration files.
//
// A configuration file is YAML holding either a single destination or a list
// of destinations:
//
//	- destination: /var/www/html/ads.txt
//	  updateInterval: 6h
//	  sources:
//	    - https://example.com/ads.txt
//	    - source: https://partner.example/ads.txt
//	      transform:
//	        strip_variables: [contact, subdomain]
//
// # Fields
//
//   - destination (required): output path; relative paths are resolved
//     against the directory of the configuration file
//   - sources (required, may be empty): bare URLs or {source, transform} mappings
//   - updateInterval (optional): `<integer><unit>` with unit s, m, h or d;
//     anything unusable falls back to DefaultUpdateInterval
//
// # Errors
//
// LoadFile reports every failure as *ParseError so that callers can keep the
// previously loaded configuration running when a reload fails.
package config
