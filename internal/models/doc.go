// Package models defines the core domain models for billscan.
//
// # Pipeline
//
// A receipt moves through the system as:
//   - raw OCR text, extracted from a photo by the OCR layer
//   - ReceiptData, the structured form produced by the parser
//   - AllocationResult, the per-person split produced by the splitter
//
// # Current Models
//
//   - ReceiptData / LineItem / ChargeLine / ReceiptMeta: structured receipt
//   - Person: someone splitting the bill, optionally with a UPI handle
//   - Allocation / AllocationResult: per-person amounts at each stage
//   - Session: one in-flight bill (text, receipt, people) owned by a user
//   - User: registered account, used for API authentication only
//
// # Design Principles
//
//  1. The parser and splitter consume and produce immutable snapshots;
//     only the session layer mutates state (owner assignments, people).
//  2. Optional numeric fields (subtotal, total) are pointers so "unknown"
//     is distinguishable from zero.
//  3. Items and charges carry deterministic positional identifiers so
//     parsing the same text twice yields identical results.
package models
