// Package mdbson supports serialization and deserialization using BSON.
// Objects with interface fields are serialized and deserialized using madkins23/go-type/reg.
// Pointers to shared target objects are serialized as group/key references
// and resolved through the madkins23/go-serial/pointer cache and finders.
// This package is patterned after JSON and YAML code in madkins23/go-serial.
package mdbson
