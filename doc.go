/*
Package timewindow is a library for parsing recurring time window
expressions, checking whether an instant falls inside a window, and
calculating the next instant at which that answer changes.

# Syntax

An expression has seven whitespace-separated fields, in this order:

	second       0-59
	minute       0-59
	hour         0-23
	day          1-31
	month        1-12
	weekday      1-7 (ISO, 1 is Monday, 7 is Sunday)
	year         2000-2099

Each field is one of:

	*     - any value
	N     - the single value N (same as N-N)
	A-B   - every value from A through B
	A~B   - shorthand for the list A,A+1,...,B

Fields may hold comma-separated lists. Lists are not unions within a
field: the n-th entries of every field together form the n-th
alternative window, and a field without commas applies to all of them.
Every field must therefore have either no commas or the same number of
commas as the others. For example, `0 0 8,20 * * * *` holds two
alternatives, `0 0 8 * * * *` and `0 0 20 * * * *`.

# Windows

The fields of an alternative describe one window from its earliest to
its latest instant, not a set of values per field. A wildcard takes the
value of the instant being checked. `30 15 9-17 * * * *` covers every
day from 09:15:30 through 17:15:30, including 12:00:00. `10-20 * * * *
* *` covers seconds 10 through 20 of every minute. A day past the end
of a month stands for the month's last day, so `* * * 31 * * *` covers
the last day of every month.

The weekday field is not part of the window's bounds: it filters whole
days, so `* * 9-17 * * 1-5 *` covers 09:00:00 through 17:59:59 on
weekdays only.

Times are handled as wall-clock values in the location of the instant
given; no time zone conversion takes place.
*/
package timewindow
