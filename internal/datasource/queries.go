package datasource

// Query text for the transactional warehouse. The side label is derived in
// Go from the raw trade type code, so the queries return the code as-is.

const (
	assetsListSQL = `
SELECT DISTINCT asset_id, asset_name
FROM tfc_assets
WHERE asset_name NOT IN ('MPTest')
ORDER BY 1`

	durationsListSQL = `
SELECT DISTINCT fixed_duration_value::text AS duration
FROM tfc_option_definition
WHERE status = 1
ORDER BY 1`

	overviewKPISQL = `
SELECT count(*)                                    AS num_trades,
       count(DISTINCT ta.trader_id)                AS num_traders,
       sum(ta.money_investment - ta.trader_income) AS site_profit,
       sum(ta.money_investment)                    AS site_volume
FROM tfc_trade_actions ta
JOIN tfc_option_instances ins ON ins.option_instance_id = ta.option_instance_id
JOIN tfc_option_definition def ON def.option_def_id = ins.option_def_id
WHERE ta.trading_time BETWEEN $1 AND $2
  AND ($3 OR ins.asset_id = ANY($4))
  AND ($5 OR def.fixed_duration_value::text = ANY($6))`

	topTradersSQL = `
SELECT ta.trader_id,
       max(tr.trader_name)                         AS trader_name,
       count(*)                                    AS num_trades,
       sum(ta.trader_income - ta.money_investment) AS pnl,
       sum(ta.money_investment)                    AS volume
FROM tfc_trade_actions ta
JOIN tfc_traders tr ON tr.trader_id = ta.trader_id
JOIN tfc_option_instances ins ON ins.option_instance_id = ta.option_instance_id
JOIN tfc_option_definition def ON def.option_def_id = ins.option_def_id
WHERE ta.trading_time BETWEEN $1 AND $2
  AND ($3 OR ins.asset_id = ANY($4))
  AND ($5 OR def.fixed_duration_value::text = ANY($6))
GROUP BY ta.trader_id
HAVING abs(sum(ta.trader_income - ta.money_investment)) >= $7
ORDER BY abs(sum(ta.trader_income - ta.money_investment)) DESC
LIMIT $8`

	traderProfileSQL = `
SELECT ta.trader_id,
       max(tr.trader_name)                         AS trader_name,
       count(*)                                    AS num_trades,
       sum(ta.money_investment)                    AS volume,
       sum(ta.trader_income - ta.money_investment) AS pnl,
       min(ta.trading_time)                        AS first_trade,
       max(ta.trading_time)                        AS last_trade
FROM tfc_trade_actions ta
JOIN tfc_traders tr ON tr.trader_id = ta.trader_id
WHERE ta.trader_id = $1
  AND ta.trading_time BETWEEN $2 AND $3
GROUP BY ta.trader_id`

	allTradesSQL = `
SELECT ta.trade_action_id,
       ta.trader_id,
       ta.trade_type,
       ta.trading_time,
       ta.trading_strike,
       ta.close_time,
       ta.close_strike,
       ta.money_investment                    AS volume,
       ta.trader_income - ta.money_investment AS profit,
       ins.asset_id,
       def.fixed_duration_value::text         AS duration
FROM tfc_trade_actions ta
JOIN tfc_option_instances ins ON ins.option_instance_id = ta.option_instance_id
JOIN tfc_option_definition def ON def.option_def_id = ins.option_def_id
WHERE ta.trader_id = $1
  AND ta.trading_time BETWEEN $2 AND $3`

	ticksForWindowSQL = `
SELECT asset_id, timestamp, sender_timestamp, real_strike AS price
FROM tfc_real_time_data
WHERE asset_id = $1
  AND timestamp BETWEEN $2 AND $3
ORDER BY timestamp`
)
