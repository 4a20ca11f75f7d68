package ledger

// Schema version history:
//  1 - initial snapshot layout (sales, products, customers, contracts)
//  2 - added Sale.paymentMethod/status/createdAt, Product.cost, Contract.status
//  3 - added Settings, Metadata sequence counters, stock adjustment log
const SchemaVersion = 3

// EngineVersion is the Daftar core version, reported by the CLI.
const EngineVersion = "0.1.0"
