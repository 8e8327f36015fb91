/*
 * errors.go, part of godesc
 *
 * Copyright 2025 Tuomas Koskela <tkoskela{at}protonDOTme>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package desc

import "fmt"

//ErrorDecorator is the interface for errors returned by this library.
//The Decorate method adds and retrieves context from the error as it
//crosses function boundaries.
type ErrorDecorator interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

//Error is the concrete error type returned by the package. All
//configuration and integration failures are Critical; there are no
//recoverable errors in the descriptor core.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return fmt.Sprintf("%s", err.message)
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

//errDecorate asserts that err implements ErrorDecorator and decorates it
//with the caller's name before returning it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(ErrorDecorator)
	if !ok {
		return fmt.Errorf("%s: %s", caller, err.Error())
	}
	err2.Decorate(caller)
	return err2
}

//PanicMsg is a message used for panics on programmer errors (shape and
//dimension mismatches). It satisfies the error interface, but for
//recoverable conditions use Error.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShape           = PanicMsg("godesc: dimension mismatch")
	ErrNilCoordinates  = PanicMsg("godesc: nil coordinates given")
	ErrNilNeighborList = PanicMsg("godesc: nil neighbor list given")
	ErrBadIndex        = PanicMsg("godesc: neighbor index out of the extended region")
)
