// Package httpapi exposes a shapeset Service over HTTP.
//
// Routes:
//
//	GET  /                  drawing page
//	POST /upload            store one drawing (fields label|numero, image|myImage)
//	GET  /prepare           build and persist the dataset
//	GET  /counts            samples per label as JSON
//	GET  /dataset/features  download the features artifact
//	GET  /dataset/labels    download the labels artifact
package httpapi
