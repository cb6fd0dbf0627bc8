package postgres

var LookupIPv4 = lookupIPv4
