package sample

import "fmt"

/*# @_page_ sample Sample package
 *
 * @brief Shows every comment form.
 #*/

// Version is not documentation.
const Version = "1.0.0"

//# @_refpage_ function Greet Greet
//# @brief Says hello.
//# @param name Who to greet.

// Greet prints a greeting.
func Greet(name string) {
	s := "/*# not a comment #*/"
	fmt.Println(s, name) //# trailing
}

/* plain block comment */
