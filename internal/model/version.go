package model

// Version is the released version of runbox.
const Version = "0.3.1"
