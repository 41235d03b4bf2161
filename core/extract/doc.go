// Package extract recovers structured data from the free-form text returned
// by a generative model. Model output is supposed to carry a JSON payload but
// routinely arrives wrapped in markdown fences, surrounded by prose, with
// trailing commas, or nested under one of several response envelopes.
//
// Recovery is a linear pipeline of four stages, each of which either produces
// the next stage's input or stops with a [*Failure]:
//
//  1. [Resolve] picks the payload out of a [RawResponse] by trying an ordered
//     list of envelope [Shape]s.
//  2. [ExtractJSONText] finds the object text inside fenced or inline code,
//     trying an ordered list of patterns where the first match wins.
//  3. [Decode] normalizes whitespace and trailing commas, decodes strictly and
//     falls back to the span between the first '{' and the last '}'.
//  4. [Project] checks the required list field and runs every element through
//     a lenient mapper that fills in missing fields.
//
// [Extractor] chains the stages, and [Report] turns any failure into a short
// message for the user plus a bounded diagnostic for logs. No stage panics
// on malformed input and nothing is printed unless an observer is supplied.
package extract
