// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini provides a small parser and serializer for the INI file format.
See https://en.wikipedia.org/wiki/INI_file.

Parse streams properties to a callback as it scans and Write pulls properties
from a callback by index, so neither ties the caller to a particular storage.
File and FileSet are built on top of them for read-modify-write use.

Syntax

An INI file is ASCII text. It consists of zero or more properties. A property
is a key and value written on a single line, separated by an equals sign
('='):

	key=value

Keys are made of letters, digits, '.', '-', and '_'. Spaces may surround the
equals sign. Values run to the end of the line or to a semicolon (';'), and
trailing spaces are dropped. Values may be surrounded by double quotes ('"')
to keep trailing spaces or to use escape sequences. Supported escape
sequences:

	\n    U+000A line feed or newline
	\t    U+0009 horizontal tab
	\\    U+005C backslash
	\"    U+0022 double quote

Properties may be grouped into sections. A section is started by writing its
name in square brackets ('[' and ']') and ends at the next section name or the
end of file:

	[section]
	key1=value1
	key2=value2

Section names are made of letters, digits, spaces, '-', and '_'. Properties
encountered before a section name are part of the global section, identified
by the empty string (""). The header "[]" also names the global section.

Section names and keys are at most 31 bytes long. Values are at most 63 bytes
long after escape sequences are decoded. Longer names are errors; they are
never truncated.

A line whose first non-blank character is a semicolon is a comment. Blank
lines are ignored.

Repeated names

Multiple properties in the same section may have the same key. Parse reports
each of them. When retrieving the property in a single-value context (like
using *File.Get), only the last value will be used.

Multiple sections may have the same name. Write groups all properties of a
section under a single header.
*/
package ini
