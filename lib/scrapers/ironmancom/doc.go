// Package ironmancom scrapes race listings, results and qualifying slot
// tables from ironman.com and the competitor labs results api.
//
// The scraping methods are read-only and independent of each other, their
// output depends solely on their input. Each one follows the same shape:
//  1. turn the input into a request (url, query)
//  2. make the request, retrying rate limits and server errors
//  3. check the response (status, expected markup or json)
//  4. turn the body into output structs, goquery selectors for html and
//     encoding/json for api payloads
//
// The parsing half of every method is exported separately over an io.Reader
// so it can be tested without a server. Scrape is the part that guides the
// client through every race and subevent and hands the rows to a Sink.
package ironmancom
