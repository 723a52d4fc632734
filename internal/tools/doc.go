// Package tools exposes the Swit operations and the OAuth controls as MCP
// tools served over stdio.
//
// Every tool answers with a single JSON text block. Successful calls carry
// {success: true, data, meta, timestamp}; failures carry
// {success: false, error: {code, message, tool, apiResponse}, timestamp} and
// set isError on the result so MCP clients can tell them apart without
// parsing the body.
package tools
