package store

const schemaSQL = `
DROP TABLE IF EXISTS payments;

CREATE TABLE payments (
    period                       TEXT NOT NULL,
    platform                     TEXT NOT NULL,
    participating_institutions   REAL,
    transaction_volume_millions  REAL,
    transaction_amount_inr       REAL,
    secondary_tag_count          REAL,
    seq                          INTEGER NOT NULL
);

CREATE INDEX idx_payments_period ON payments(period, platform);
`
